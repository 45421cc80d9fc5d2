package keyboard

import (
	"testing"

	"github.com/futig/docsearch-backend/internal/telegram/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackRoundTrip(t *testing.T) {
	data, err := ParseCallback(EncodeCallback("action", ActionReset))
	require.NoError(t, err)

	assert.True(t, data.IsReset())
}

func TestParseCallback_Invalid(t *testing.T) {
	for _, data := range []string{"garbage", ":reset", ""} {
		_, err := ParseCallback(data)
		assert.Error(t, err, data)
	}
}

func TestParseCallback_KeepsColonsInValue(t *testing.T) {
	data, err := ParseCallback("action:a:b")
	require.NoError(t, err)
	assert.Equal(t, "action", data.Key)
	assert.Equal(t, "a:b", data.Value)
	assert.False(t, data.IsReset())
}

func TestAnswer_CarriesResetCallback(t *testing.T) {
	kb := Answer()

	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 1)
	button := kb.InlineKeyboard[0][0]
	assert.Equal(t, render.BtnNewDialog, button.Text)
	require.NotNil(t, button.CallbackData)

	data, err := ParseCallback(*button.CallbackData)
	require.NoError(t, err)
	assert.True(t, data.IsReset())
}
