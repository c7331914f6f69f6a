package svoexport_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/svoexport"
)

func TestModeProperties(t *testing.T) {
	type expectation struct {
		Secondary svoexport.View
		Kind      svoexport.SinkKind
	}
	for mode, expected := range map[svoexport.Mode]expectation{
		svoexport.ModeLeftRightVideo:      {svoexport.ViewRight, svoexport.SinkKindVideo},
		svoexport.ModeLeftDepthViewVideo:  {svoexport.ViewDepth, svoexport.SinkKindVideo},
		svoexport.ModeLeftRightImages:     {svoexport.ViewRight, svoexport.SinkKindImages},
		svoexport.ModeLeftDepthViewImages: {svoexport.ViewDepth, svoexport.SinkKindImages},
		svoexport.ModeLeftDepth16Images:   {svoexport.ViewDepthMeasure, svoexport.SinkKindImages},
	} {
		require.True(t, mode.IsValid(), mode)
		require.Equal(t, expected.Secondary, mode.SecondaryView(), mode)
		require.Equal(t, expected.Kind, mode.SinkKind(), mode)
	}
	require.False(t, svoexport.EndOfMode.IsValid())
	require.Equal(t, svoexport.SinkKindUndefined, svoexport.EndOfMode.SinkKind())
}

func TestViewFilePrefix(t *testing.T) {
	require.Equal(t, "left", svoexport.ViewLeft.FilePrefix())
	require.Equal(t, "right", svoexport.ViewRight.FilePrefix())
	require.Equal(t, "depth", svoexport.ViewDepth.FilePrefix())
	require.Equal(t, "depth", svoexport.ViewDepthMeasure.FilePrefix())
}

func TestParseMode(t *testing.T) {
	for mode := svoexport.Mode(0); mode < svoexport.EndOfMode; mode++ {
		parsed, err := svoexport.ParseMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, parsed)
	}

	m, err := svoexport.ParseMode(" 3 ")
	require.NoError(t, err)
	require.Equal(t, svoexport.ModeLeftDepthViewImages, m)

	_, err = svoexport.ParseMode("5")
	require.Error(t, err)
	_, err = svoexport.ParseMode("-1")
	require.Error(t, err)
	_, err = svoexport.ParseMode("mp4")
	require.Error(t, err)
}

func TestModeJSON(t *testing.T) {
	var v struct {
		Mode svoexport.Mode `json:"mode"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"mode":4}`), &v))
	require.Equal(t, svoexport.ModeLeftDepth16Images, v.Mode)
	require.NoError(t, json.Unmarshal([]byte(`{"mode":"left_right_png"}`), &v))
	require.Equal(t, svoexport.ModeLeftRightImages, v.Mode)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.Equal(t, `{"mode":"left_right_png"}`, string(b))
}
