// Package prompt holds the interactive resource picker shown when the CLI
// runs without an explicit resource selection.
package prompt

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-crudgen/pkg/api"
)

// ErrAborted is returned when the user interrupts the prompt.
var ErrAborted = errors.New("prompt: aborted")

// Driver abstracts the terminal prompt so the picker can be tested
// without a TTY.
type Driver interface {
	MultiSelect(ctx context.Context, message string, options []string) ([]string, error)
}

type surveyDriver struct{}

// NewSurveyDriver returns the production terminal driver.
func NewSurveyDriver() Driver {
	return surveyDriver{}
}

func (surveyDriver) MultiSelect(ctx context.Context, message string, options []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	prompt := &survey.MultiSelect{
		Message: message,
		Options: options,
		Default: options,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil, ErrAborted
		}
		return nil, err
	}
	return out, nil
}

// PickResources lets the user narrow down which resources to scaffold. An
// empty selection falls back to everything so an accidental return does
// not produce an empty run.
func PickResources(ctx context.Context, driver Driver, resources []api.Resource) ([]api.Resource, error) {
	if len(resources) == 0 {
		return nil, nil
	}

	options := make([]string, 0, len(resources))
	for _, resource := range resources {
		options = append(options, resource.Title)
	}

	selected, err := driver.MultiSelect(ctx, "Select the resources to generate", options)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return resources, nil
	}

	keep := make(map[string]struct{}, len(selected))
	for _, title := range selected {
		keep[title] = struct{}{}
	}
	picked := make([]api.Resource, 0, len(selected))
	for _, resource := range resources {
		if _, ok := keep[resource.Title]; ok {
			picked = append(picked, resource)
		}
	}
	return picked, nil
}
