package corpus

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// ExtractPDFText returns the plain text of the PDF at path with whitespace
// runs collapsed to single spaces.
func ExtractPDFText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return NormalizeWhitespace(builder.String()), nil
}

// NormalizeWhitespace trims s and collapses every whitespace run to one space.
func NormalizeWhitespace(s string) string {
	return extraneousWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}
