package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

var symbolFormat = regexp.MustCompile(`^[A-Z0-9.-]+$`)

// PromptForSymbol asks the user for a stock ticker symbol.
func PromptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Enter the stock ticker symbol (e.g., AAPL, MSFT, GOOGL):",
		Help:    "Please enter a valid stock ticker symbol for analysis",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(strings.ToUpper(val.(string)))
		if len(str) == 0 {
			return fmt.Errorf("ticker symbol cannot be empty")
		}
		if len(str) > 10 {
			return fmt.Errorf("ticker symbol too long (max 10 characters)")
		}
		if !symbolFormat.MatchString(str) {
			return fmt.Errorf("invalid ticker format (use letters, numbers, dots, and hyphens only)")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(strings.ToUpper(symbol)), nil
}
