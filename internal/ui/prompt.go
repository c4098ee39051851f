package ui

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// Extra options offered after the candidate terms.
const (
	ChoiceOther = "(type another term)"
	ChoiceSkip  = "(skip)"
	ChoiceQuit  = "(save and quit)"
)

// Prompter asks the user questions.
type Prompter interface {
	Select(message string, options []string) (string, error)
	Input(message, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter prompts on the terminal.
type SurveyPrompter struct{}

// Select displays a selection prompt
func (SurveyPrompter) Select(message string, options []string) (string, error) {
	var result string
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 10,
	}

	err := survey.AskOne(prompt, &result)
	return result, err
}

// Input displays a text input prompt
func (SurveyPrompter) Input(message, defaultValue string) (string, error) {
	var result string
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}

	err := survey.AskOne(prompt, &result)
	return result, err
}

// Confirm shows a confirmation prompt
func (SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}

	err := survey.AskOne(prompt, &result)
	return result, err
}

// Decision is the answer to ChooseTerm.
type Decision int

const (
	DecisionMapped Decision = iota
	DecisionSkipped
	DecisionQuit
)

// ChooseTerm asks which canonical term a value maps to. labels and terms
// are parallel; labels are shown, the matching term is returned. A typed
// term is accepted only when valid reports true for it.
func ChooseTerm(p Prompter, message string, labels, terms []string, valid func(string) bool) (string, Decision, error) {
	options := append(append([]string(nil), labels...), ChoiceOther, ChoiceSkip, ChoiceQuit)

	for {
		answer, err := p.Select(message, options)
		if err != nil {
			return "", DecisionQuit, err
		}

		switch answer {
		case ChoiceSkip:
			return "", DecisionSkipped, nil
		case ChoiceQuit:
			return "", DecisionQuit, nil
		case ChoiceOther:
			typed, err := p.Input("Canonical term:", "")
			if err != nil {
				return "", DecisionQuit, err
			}
			typed = strings.TrimSpace(typed)
			if valid != nil && !valid(typed) {
				ShowWarning(typed + " is not a canonical term")
				continue
			}
			return typed, DecisionMapped, nil
		}

		for i, label := range labels {
			if label == answer && i < len(terms) {
				return terms[i], DecisionMapped, nil
			}
		}
		return "", DecisionSkipped, nil
	}
}
