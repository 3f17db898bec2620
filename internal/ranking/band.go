package ranking

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// Band classifies an overall score for display only. It never affects order.
type Band int

const (
	BandNegative Band = iota
	BandCaution
	BandPositive
)

const (
	PositiveThreshold = 0.70
	CautionThreshold  = 0.50
)

func ScoreBand(score float64) Band {
	switch {
	case score >= PositiveThreshold:
		return BandPositive
	case score >= CautionThreshold:
		return BandCaution
	default:
		return BandNegative
	}
}

func (b Band) String() string {
	switch b {
	case BandPositive:
		return "positive"
	case BandCaution:
		return "caution"
	case BandNegative:
		return "negative"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

var bandStyles = map[Band]func(any) string{
	BandPositive: promptui.Styler(promptui.FGGreen),
	BandCaution:  promptui.Styler(promptui.FGYellow),
	BandNegative: promptui.Styler(promptui.FGRed),
}

// Paint wraps s in the terminal color of the band.
func (b Band) Paint(s string) string {
	style, ok := bandStyles[b]
	if !ok {
		return s
	}
	return style(s)
}

// Percent renders a [0,1] score as a percentage with one decimal.
func Percent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

const barWidth = 10

// Bar draws score as a fixed width gauge.
func Bar(score float64) string {
	switch {
	case score < 0:
		score = 0
	case score > 1:
		score = 1
	}
	filled := int(score*barWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
