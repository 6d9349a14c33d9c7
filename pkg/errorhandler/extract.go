package errorhandler

import (
	"bufio"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

const (
	extractBefore = 5
	extractLines  = 11
	highlightOpen = `<span style="color: #C00; font-weight: bold;">`
)

// CodeExtract returns up to eleven lines of file starting five lines above
// line, HTML-escaped, with line highlighted. Each line is prefixed by its
// number; short files and lines near the top start at line 1.
func CodeExtract(file string, line int) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errors.Join(ErrFileNotFound, err)
		}
		return "", errors.Join(ErrFileNotReadable, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return "", errors.Join(ErrFileNotReadable, err)
	}

	start := line - extractBefore
	if start < 1 || len(lines) < extractLines {
		start = 1
	}
	end := min(start+extractLines-1, len(lines))
	if start > end {
		return "", nil
	}

	width := len(strconv.Itoa(end)) + 2
	out := make([]string, 0, end-start+1)
	replacer := strings.NewReplacer("\t", "    ", "\r", " ", "\n", " ")
	for n := start; n <= end; n++ {
		text := fmt.Sprintf("%-*s", width, strconv.Itoa(n)+":") +
			strings.TrimRight(replacer.Replace(lines[n-1]), " \t\r\n\v\f\x00")
		text = html.EscapeString(text)
		if n == line {
			text = highlightOpen + text + "</span>"
		}
		out = append(out, text)
	}

	return strings.Join(out, "\n"), nil
}
