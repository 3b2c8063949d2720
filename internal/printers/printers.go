package printers

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

type IPrinters interface {
	Confirm(message string) bool
}

type Printers struct{}

// NewPrinters returns new printers struct
func NewPrinters() *Printers {
	return &Printers{}
}

// Confirm prompts message and returns true if the user entered Y/y.
func (p Printers) Confirm(message string) bool {
	prompt := promptui.Prompt{
		Label:    message + " Press (y/n)",
		Validate: validateYesNo,
	}

	result, err := prompt.Run()
	if err != nil {
		return false
	}
	return isYes(result)
}

func validateYesNo(input string) error {
	input = strings.ToLower(strings.TrimSpace(input))
	if input != "y" && input != "n" {
		return fmt.Errorf("wrong input %s, was expecting `y` or `n`", input)
	}
	return nil
}

func isYes(input string) bool {
	return strings.ToLower(strings.TrimSpace(input)) == "y"
}
