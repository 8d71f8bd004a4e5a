package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// ParseLocations разбирает строку вида "Paris, Rome, Tokyo" в список
// непустых названий с сохранением порядка ввода
func ParseLocations(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// ExportFilename строит имя файла экспорта из названия поездки и момента
// экспорта; пробелы нормализуются в подчеркивания. Момент включает время,
// чтобы повторные экспорты одной поездки за день не совпадали по имени.
func ExportFilename(tripName string, at time.Time) string {
	name := whitespaceRe.ReplaceAllString(strings.TrimSpace(tripName), "_")
	if name == "" {
		name = "trip"
	}
	return fmt.Sprintf("%s_%s.json", name, at.Format("2006-01-02_15-04-05"))
}
