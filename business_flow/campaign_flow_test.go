package businessflow

import (
	"fmt"
	"strings"
	"testing"

	"github.com/amirphl/Jorogumo/app/services"
	"github.com/amirphl/Jorogumo/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitutePlaceholders(t *testing.T) {
	masking := services.NewMaskingService(&config.TrackingConfig{
		BaseDomain: "https://links.example.com",
		PathPrefix: "r",
	})

	t.Run("SuffixedLinkDoesNotCorruptPrefixSiblings", func(t *testing.T) {
		// Ten destinations so link 1's URL is a string prefix of link 10's
		destinations := make([]string, 10)
		var sb strings.Builder
		for i := range destinations {
			destinations[i] = fmt.Sprintf("https://shop.example.com/%d", i+1)
			fmt.Fprintf(&sb, "See [link%d] ", i+1)
		}
		body := sb.String()

		masked := masking.MaskTemplate("Promo", 1, body, destinations)
		links := masked.Links
		require.Len(t, links, 10)

		// Link 1 drew a collision suffix after masking
		links[0].TrackingURL += "_ab12"

		out := substitutePlaceholders(body, links)

		assert.Contains(t, out, links[0].TrackingURL)
		assert.Contains(t, out, "https://links.example.com/r/Promo_T1_L10 ")
		assert.NotContains(t, out, links[0].TrackingURL+"0")
		assert.NotContains(t, out, "[link")
	})

	t.Run("UnmatchedPlaceholderLeftAlone", func(t *testing.T) {
		masked := masking.MaskTemplate("Promo", 1, "Go [link1] and [link9]", []string{"https://shop.example.com/a"})

		out := substitutePlaceholders("Go [link1] and [link9]", masked.Links)

		assert.NotContains(t, out, "[link1]")
		assert.Contains(t, out, "[link9]")
	})
}
