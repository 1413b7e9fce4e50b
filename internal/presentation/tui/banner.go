package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown by interactive commands.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	s1 := termenv.String("     _ _      _           _  ").Foreground(p.Color("#34d399"))
	s2 := termenv.String("  __| (_) ___| |__   ___ | | _____ _   _ ").Foreground(p.Color("#2dd4bf"))
	s3 := termenv.String(" / _` | |/ __| '_ \\ / _ \\| |/ / _ \\ | | |").Foreground(p.Color("#22d3ee"))
	s4 := termenv.String("| (_| | | (__| | | | (_) |   <  __/ |_| |").Foreground(p.Color("#38bdf8"))
	s5 := termenv.String(" \\__,_|_|\\___|_| |_|\\___/|_|\\_\\___|\\__, |").Foreground(p.Color("#60a5fa"))
	s6 := termenv.String("                                   |___/ ").Foreground(p.Color("#818cf8"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Printf("  v%s\n\n", version)
}
