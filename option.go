package svoexport

type Option = any
type Options []Option

func GetOption[T any](in Options) (T, bool) {
	for _, item := range in {
		v, ok := item.(T)
		if ok {
			return v, ok
		}
	}

	var zeroValue T
	return zeroValue, false
}

// OptionExportID overrides the identifier the export is logged with.
type OptionExportID string

// OptionProgressReporter overrides the Exporter's progress reporter for
// a single export.
type OptionProgressReporter struct {
	ProgressReporter
}
