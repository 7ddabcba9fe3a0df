package screen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/impermanent"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/component"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/router"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/style"
)

const (
	fieldLeft  = "left"
	fieldRight = "right"

	// previewSamples bounds the loss preview however wide the range is.
	previewSamples = 240
)

// CreatePositionScreen opens a position in the selected pool over a bin
// range relative to its active bin.
type CreatePositionScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	view   state.View

	services ui.ServiceProvider

	form    *component.Form
	chart   *component.LossChart
	spinner spinner.Model
	header  *component.StatusHeader
	helpBar *component.HelpBar
}

// NewCreatePositionScreen creates the form, seeded from the view's form values.
func NewCreatePositionScreen(services ui.ServiceProvider, view state.View) *CreatePositionScreen {
	keyMap := ui.DefaultKeyMap()

	form := component.NewForm().
		AddField(fieldLeft, component.FieldTypeNumber, "Left bin (relative to active)", true, state.DefaultLeftBin).
		AddField(fieldRight, component.FieldTypeNumber, "Right bin (relative to active)", true, state.DefaultRightBin).
		SetFieldValue(fieldLeft, view.Form.Left).
		SetFieldValue(fieldRight, view.Form.Right)
	integer := func(v string) error {
		if _, err := strconv.Atoi(strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("must be an integer")
		}
		return nil
	}
	form.SetFieldValidation(fieldLeft, integer).SetFieldValidation(fieldRight, integer)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	s := &CreatePositionScreen{
		keyMap:   keyMap,
		services: services,
		form:     form,
		chart:    component.NewLossChart(6).SetTitle("Impermanent loss over the range"),
		spinner:  sp,
		header:   component.NewStatusHeader(services.GetConfig().Network),
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteCreatePosition)),
	}
	s.setView(view)
	return s
}

func (s *CreatePositionScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (s *CreatePositionScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.StateMsg:
		s.setView(msg.View)
		return s, nil

	case spinner.TickMsg:
		if !s.view.Submitting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if key.Matches(msg, s.keyMap.Submit) {
			return s, s.submit()
		}
		if s.view.Submitting {
			return s, nil
		}

		var cmd tea.Cmd
		s.form, cmd = s.form.Update(msg)
		values := state.FormValues{Left: s.form.GetValue(fieldLeft), Right: s.form.GetValue(fieldRight)}
		if values != s.view.Form {
			return s, tea.Batch(cmd, ui.Dispatch(state.FormChanged{Values: values}))
		}
		return s, cmd
	}
	return s, nil
}

// submit validates the range and starts the open. A second submit while
// one is in flight is ignored.
func (s *CreatePositionScreen) submit() tea.Cmd {
	if s.view.Submitting {
		return nil
	}
	if s.view.SelectedPool == nil {
		s.form.SetFormError("select a pool first")
		return nil
	}
	if !s.form.Validate() {
		return nil
	}
	left, right, err := dlmm.ParseBinRange(s.form.GetValue(fieldLeft), s.form.GetValue(fieldRight))
	if err != nil {
		s.form.SetFormError(err.Error())
		return nil
	}
	if !s.view.Connected() {
		return tea.Sequence(
			ui.Dispatch(state.PositionFailed{Err: dlmm.ErrWalletRequired}),
			ui.Navigate(ui.RouteWalletPicker))
	}
	signer, ok := s.services.GetWallets()[s.view.Wallet.Name]
	if !ok {
		return ui.Dispatch(state.PositionFailed{Err: fmt.Errorf("wallet %q is no longer loaded", s.view.Wallet.Name)})
	}

	params := dlmm.NewCreatePositionParams(s.view.Wallet.Address, *s.view.SelectedPool, left, right)
	return tea.Sequence(
		ui.Dispatch(state.PositionSubmitted{}),
		tea.Batch(openPosition(s.services, params, signer), s.spinner.Tick),
	)
}

func (s *CreatePositionScreen) setView(v state.View) {
	s.view = v
	s.header.SetView(v)

	// preview the loss curve over the entered range
	s.chart.SetCurve(nil).SetOverlay(nil)
	left, right, err := dlmm.ParseBinRange(v.Form.Left, v.Form.Right)
	if err != nil {
		return
	}
	overlay := impermanent.OverlayForBins(left, right, 0)
	span := max(abs(overlay.Low), abs(overlay.High))*2 + 10
	lower := max(-span, -90)
	step := (span-lower)/previewSamples + 1
	curve, err := impermanent.SampleLossCurve(span, impermanent.WithLowerBound(lower), impermanent.WithStep(step))
	if err != nil {
		return
	}
	s.chart.SetCurve(curve).SetOverlay(&overlay)
}

// View renders the form, the pool summary and the submit status.
func (s *CreatePositionScreen) View() string {
	var content strings.Builder

	content.WriteString(s.header.View())
	content.WriteString("\n")
	content.WriteString(style.TitleStyle.Render("Open position"))
	content.WriteString("\n")

	if p := s.view.SelectedPool; p != nil {
		summary := fmt.Sprintf("%s • bin step %d • active bin %d • price %s",
			p.DisplayName(), p.BinStep, p.ActiveID, formatPrice(p.Price))
		content.WriteString(style.SubHeaderStyle.Render(summary))
	} else {
		content.WriteString(style.WarningStyle.Render("No pool selected"))
	}
	content.WriteString("\n")

	content.WriteString(s.form.View())
	content.WriteString("\n")

	switch {
	case s.view.Submitting:
		content.WriteString(s.spinner.View() + " Submitting transaction...")
	case s.view.LastSignature != "":
		content.WriteString(style.SuccessStyle.Render("Signature: " + s.view.LastSignature))
	case !s.view.Connected():
		content.WriteString(style.WarningStyle.Render("Connect a wallet to submit"))
	}
	content.WriteString("\n\n")

	content.WriteString(s.chart.View())
	content.WriteString("\n")
	content.WriteString(s.helpBar.View())
	return content.String()
}

// SetSize sets the screen dimensions
func (s *CreatePositionScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.header.SetWidth(width)
	s.form.SetWidth(width)
	s.chart.SetSize(width-2, 6)
	s.helpBar.SetWidth(width)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
