package news

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Item is a single TON news item ready for delivery.
type Item struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Content string `json:"content"`
}

// MaxContentRunes limits cleaned summary length in a message.
const MaxContentRunes = 200

// NoDescription is used when a feed entry has no usable summary.
const NoDescription = "No description"

// Keywords that mark a news item as TON related.
var tonKeywords = []string{
	"TON", "TONCOIN", "Ton blockchain", "Telegram TON", "TON coin",
	"ton network", "ton token", "ton ecosystem", "crypto ton", "ton price",
	"ton trading", "ton news",
}

// High-frequency words removed before fingerprinting. Near-duplicate
// articles from different outlets mostly differ in this boilerplate.
var fingerprintStopwords = []string{
	"ton", "news", "price", "blockchain", "crypto", "token", "musk",
	"elon", "twitter", "spacex",
}

const fingerprintTokens = 15

var tagPattern = regexp.MustCompile(`<[^>]*>`)

var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#39;", "'",
	"&nbsp;", " ",
)

// CleanHTML strips tags, decodes common entities and collapses whitespace.
// Total function: empty input gives empty output.
func CleanHTML(raw string) string {
	if raw == "" {
		return ""
	}
	text := tagPattern.ReplaceAllString(raw, "")
	text = entityReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// IsTONRelated reports whether text mentions TON by any configured keyword.
func IsTONRelated(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range tonKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// ContentFingerprint builds a short stable digest from title and content.
// Stopwords are stripped as substrings, the first 15 remaining tokens are
// joined and hashed; two rewrites of the same story map to the same value
// regardless of link. Stopword-heavy titles can strip down to nothing and
// then collide on the empty-string digest; that aggressive behavior is kept
// on purpose.
func ContentFingerprint(title, content string) string {
	combined := strings.ToLower(title + "_" + content)
	for _, word := range fingerprintStopwords {
		combined = strings.ReplaceAll(combined, word, "")
	}

	words := strings.Fields(combined)
	if len(words) > fingerprintTokens {
		words = words[:fingerprintTokens]
	}
	key := strings.Join(words, "_")

	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}

// TruncateContent cuts cleaned content to the message budget on a rune
// boundary and substitutes the placeholder for empty summaries.
func TruncateContent(content string) string {
	if content == "" {
		return NoDescription
	}
	if utf8.RuneCountInString(content) <= MaxContentRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:MaxContentRunes])
}
