package extractor

import "regexp"

// urlPattern захватывает http(s)-ссылку до первого пробельного символа,
// кавычки, угловой или закрывающей скобки, чтобы не цеплять пунктуацию
// вокруг ссылки в тексте.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+(?:\.[^\s<>"')\]]+)*`)

// Extract находит в тексте все http(s)-ссылки и возвращает их без
// дубликатов, сохраняя порядок первого вхождения.
func Extract(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	urls := make([]string, 0, len(matches))
	for _, u := range matches {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	return urls
}
