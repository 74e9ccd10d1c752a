package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func runProgram(model tea.Model) error {
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, err := program.Run()
	return err
}
