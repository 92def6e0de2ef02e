package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
)

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#60a5fa")).
		Bold(true).
		Render("T E A M W O R K")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Team collaboration, from the terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"teamwork", "Sign in, register, or open your dashboard (interactive TUI)"},
		{"teamwork whoami", "Show the signed-in user"},
		{"teamwork logout", "Clear your session"},
		{"teamwork docs", "Open the documentation in a browser"},
		{"teamwork version", "Show version"},
		{"teamwork help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(w, "\n  Flags:\n%s\n", flagSet.FlagUsages())
}
