package content_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/outreach-dispatch/internal/content"
	"github.com/example/outreach-dispatch/internal/models"
)

func TestDefaultTableHasTwelveDistinctTemplates(t *testing.T) {
	table := content.DefaultTable()
	require.Equal(t, 12, table.Len())

	seen := make(map[string]content.Key)
	for _, ch := range models.Channels() {
		for _, cx := range []models.Complexity{models.ComplexityLow, models.ComplexityMedium, models.ComplexityHigh} {
			text, ok := table.Render(ch, cx, "Asha")
			require.True(t, ok, "missing template for %s/%s", ch, cx)
			require.Contains(t, text, "Asha")
			if prev, dup := seen[text]; dup {
				t.Fatalf("template %s/%s duplicates %s/%s", ch, cx, prev.Channel, prev.Complexity)
			}
			seen[text] = content.Key{Channel: ch, Complexity: cx}
		}
	}
}

func TestRenderFallbackNames(t *testing.T) {
	table := content.DefaultTable()

	cases := []struct {
		channel models.Channel
		want    string
	}{
		{models.ChannelSMS, "User"},
		{models.ChannelWhatsApp, "User"},
		{models.ChannelCall, "User"},
		{models.ChannelEmail, "Customer"},
	}
	for _, tc := range cases {
		text, ok := table.Render(tc.channel, models.ComplexityMedium, "  ")
		require.True(t, ok)
		require.Contains(t, text, tc.want, "channel %s", tc.channel)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	table := content.DefaultTable()
	first, _ := table.Render(models.ChannelEmail, models.ComplexityHigh, "Ravi")
	second, _ := table.Render(models.ChannelEmail, models.ComplexityHigh, "Ravi")
	require.Equal(t, first, second)
	require.True(t, strings.HasPrefix(first, "Dear Ravi,"))
}

func TestRenderUnknownChannel(t *testing.T) {
	text, ok := content.DefaultTable().Render(models.Channel("fax"), models.ComplexityLow, "x")
	require.False(t, ok)
	require.Equal(t, content.UnsupportedModeText, text)
}

func TestRenderUnknownComplexityUsesMedium(t *testing.T) {
	table := content.DefaultTable()
	medium, _ := table.Render(models.ChannelSMS, models.ComplexityMedium, "A")
	odd, ok := table.Render(models.ChannelSMS, models.Complexity("extreme"), "A")
	require.True(t, ok)
	require.Equal(t, medium, odd)
}

func TestNewTableRejectsBadTemplate(t *testing.T) {
	_, err := content.NewTable(map[content.Key]string{
		{Channel: models.ChannelSMS, Complexity: models.ComplexityLow}: "Hi {{.Name",
	})
	require.Error(t, err)
}
