package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"speechsync/internal/commentary"
	"speechsync/internal/progress"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiUnderline = "\x1b[4m"
	ansiRed       = "\x1b[31m"
	ansiGreen     = "\x1b[32m"
	ansiYellow    = "\x1b[33m"
	ansiBlue      = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var titleCaser = cases.Title(language.English)

// displayLabel turns snake_case identifiers into title-cased words.
func displayLabel(value string) string {
	return titleCaser.String(strings.ReplaceAll(value, "_", " "))
}

func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(seconds) / 60
	return fmt.Sprintf("%02d:%04.1f", minutes, seconds-float64(minutes*60))
}

// describePosition names the part of the report being read.
func describePosition(p progress.Progress, sections []commentary.Section) string {
	switch p.Kind {
	case progress.Intro:
		return "Intro"
	case progress.ReadingHeader:
		return sectionTitle(sections, p.Section) + " (header)"
	case progress.ReadingContent:
		return fmt.Sprintf("%s %3.0f%%", sectionTitle(sections, p.Section), p.Fraction*100)
	default:
		return displayLabel(p.Kind.String())
	}
}

func sectionTitle(sections []commentary.Section, index int) string {
	if index >= 0 && index < len(sections) && sections[index].Title != "" {
		return sections[index].Title
	}
	return fmt.Sprintf("Section %d", index+1)
}

// renderHighlight prints the active sentence with the current word marked.
func renderHighlight(h progress.Highlight, colorize bool) string {
	if !h.Active() || h.Sentence == "" {
		return ""
	}
	words := progress.Words(h.Sentence)
	for i, word := range words {
		if i != h.Position.Word {
			continue
		}
		if colorize {
			words[i] = ansiBold + ansiUnderline + word + ansiReset
		} else {
			words[i] = "[" + word + "]"
		}
	}
	return strings.Join(words, " ")
}
