package todo

import (
	"fmt"
	"strconv"
)

type Color string

// палитра фиксирована, порядок важен: первый цвет используется по умолчанию
const (
	ColorPink   Color = "#FFB3BA"
	ColorBlue   Color = "#B4D8E7"
	ColorGreen  Color = "#C8E6C9"
	ColorYellow Color = "#FFF9C4"
	ColorPurple Color = "#D8BFD8"
	ColorOrange Color = "#FFE0B2"
)

const DefaultColor = ColorPink

var Palette = []Color{ColorPink, ColorBlue, ColorGreen, ColorYellow, ColorPurple, ColorOrange}

func (c Color) Valid() bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// ParseColor принимает hex из палитры либо её индекс с единицы ("1".."6")
func ParseColor(s string) (Color, error) {
	if s == "" {
		return DefaultColor, nil
	}
	if idx, err := strconv.Atoi(s); err == nil {
		if idx < 1 || idx > len(Palette) {
			return "", fmt.Errorf("цвет %d вне палитры 1..%d", idx, len(Palette))
		}
		return Palette[idx-1], nil
	}
	c := Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("цвет %q не из палитры", s)
	}
	return c, nil
}
