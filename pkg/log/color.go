package log

import (
	"os"
	"runtime"

	"github.com/gookit/color"
)

var (
	EnableColor = true
)

type Color struct {
	Info     func(a ...any) string
	Low      func(a ...any) string
	Midium   func(a ...any) string
	High     func(a ...any) string
	Critical func(a ...any) string
	Vulner   func(a ...any) string
	Time     func(a ...any) string
	Title    func(a ...any) string
	Banner   func(a ...any) string
	Bold     func(a ...any) string
	Red      func(a ...any) string
	Green    func(a ...any) string
	Yellow   func(a ...any) string
}

var LogColor *Color

func init() {
	detectTerminal()

	if LogColor == nil {
		LogColor = NewColor()
	}
}

// 检测终端颜色支持
func detectTerminal() {
	if runtime.GOOS == "windows" {
		_, wt := os.LookupEnv("WT_SESSION")
		_, ansi := os.LookupEnv("ANSICON")
		EnableColor = wt || ansi
	} else {
		fi, _ := os.Stdout.Stat()
		EnableColor = (fi.Mode() & os.ModeCharDevice) != 0
	}
}

// DisableColor turns off all palette rendering, used by the -no-colour flag.
func DisableColor() {
	EnableColor = false
	color.Disable()
}

func NewColor() *Color {
	return &Color{
		Info:     color.HiCyan.Render,
		Low:      color.FgCyan.Render,
		Midium:   color.FgYellow.Render,
		High:     color.FgLightRed.Render,
		Critical: color.RGB(180, 84, 255).Sprint,
		Vulner:   color.FgLightGreen.Render,
		Time:     color.Gray.Render,
		Title:    color.FgLightBlue.Render,
		Banner:   color.FgLightGreen.Render,
		Bold:     color.Bold.Render,
		Red:      color.FgLightRed.Render,
		Green:    color.FgLightGreen.Render,
		Yellow:   color.Yellow.Render,
	}
}

func (c *Color) GetColor(severity string, log string) string {
	switch severity {
	case "info":
		return c.Info(log)
	case "low":
		return c.Low(log)
	case "medium":
		return c.Midium(log)
	case "high":
		return c.High(log)
	case "critical":
		return c.Critical(log)
	default:
		return c.Vulner(log)
	}
}
