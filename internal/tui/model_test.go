package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/costwatch/costwatch/internal/core"
	"github.com/costwatch/costwatch/internal/fetch"
)

type stubClient struct {
	provider core.Provider
	costs    []core.CostRecord
	usage    []core.UsageRecord
}

func (s *stubClient) Provider() core.Provider { return s.provider }

func (s *stubClient) FetchCosts(ctx context.Context, start time.Time) ([]core.CostRecord, error) {
	return s.costs, nil
}

func (s *stubClient) FetchUsage(ctx context.Context, start time.Time) ([]core.UsageRecord, error) {
	return s.usage, nil
}

func (s *stubClient) ResolveKeyNames(ctx context.Context, ids []string) (map[string]string, error) {
	return nil, nil
}

func stubFactory(p core.Provider, apiKey string) fetch.Client {
	return &stubClient{provider: p}
}

func testDay(offset int) time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func newTestModel(t *testing.T, keys map[core.Provider]string) Model {
	t.Helper()
	return NewModel(keys, WithClientFactory(stubFactory))
}

func TestNewModel_NoCredentialsOpensPopup(t *testing.T) {
	m := newTestModel(t, nil)
	if !m.popupActive {
		t.Error("popup should open when no provider has credentials")
	}
	if m.popupFor != core.ProviderOpenAI {
		t.Errorf("popupFor = %v", m.popupFor)
	}
}

func TestNewModel_SelectionMovesToConnectedProvider(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{core.ProviderAnthropic: "sk-ant"})
	if m.nav.provider != core.ProviderAnthropic {
		t.Errorf("provider = %v, want anthropic", m.nav.provider)
	}
	if m.popupActive {
		t.Error("popup should stay closed when a provider is connected")
	}
}

func TestStartFetch_InFlightIsNoOp(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{core.ProviderOpenAI: "sk-test"})

	cmd := m.startFetch(core.ProviderOpenAI)
	if cmd == nil {
		t.Fatal("first fetch should produce a command")
	}
	if !m.sessions[core.ProviderOpenAI].inFlight {
		t.Fatal("inFlight should be set")
	}

	if cmd := m.startFetch(core.ProviderOpenAI); cmd != nil {
		t.Error("second fetch while in flight should be dropped, not queued")
	}
}

func TestStartFetch_NoClientIsNoOp(t *testing.T) {
	m := newTestModel(t, nil)
	if cmd := m.startFetch(core.ProviderOpenAI); cmd != nil {
		t.Error("fetch without a client should be a no-op")
	}
}

func TestUpdate_OutcomeCommittedByOriginProvider(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{
		core.ProviderOpenAI:    "sk-oa",
		core.ProviderAnthropic: "sk-ant",
	})
	m.sessions[core.ProviderAnthropic].inFlight = true

	// User is looking at OpenAI when an Anthropic fetch completes.
	m.nav.provider = core.ProviderOpenAI

	outcome := core.FetchOutcome{
		Provider: core.ProviderAnthropic,
		CostRecords: []core.CostRecord{
			{Date: testDay(0), Amount: 5, Category: "claude-sonnet-4"},
		},
		KeyNames: map[string]string{},
	}
	updated, _ := m.Update(fetchOutcomeMsg{outcome: outcome})
	m = updated.(Model)

	anthropic := m.sessions[core.ProviderAnthropic]
	if len(anthropic.costRecords) != 1 {
		t.Error("outcome should land in the anthropic session")
	}
	if anthropic.inFlight {
		t.Error("inFlight should clear after the outcome arrives")
	}
	if !anthropic.fetched {
		t.Error("fetched should be marked")
	}
	if len(m.sessions[core.ProviderOpenAI].costRecords) != 0 {
		t.Error("active session must be untouched by another provider's outcome")
	}
}

func TestUpdate_OutcomeReplacesRecordsWholesale(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{core.ProviderOpenAI: "sk-oa"})
	s := m.sessions[core.ProviderOpenAI]
	s.costRecords = []core.CostRecord{
		{Date: testDay(0), Amount: 1, Category: "old"},
		{Date: testDay(1), Amount: 2, Category: "old"},
	}
	s.errors = core.ProviderErrors{Cost: "stale error"}

	outcome := core.FetchOutcome{
		Provider:    core.ProviderOpenAI,
		CostRecords: []core.CostRecord{{Date: testDay(2), Amount: 9, Category: "gpt-4"}},
		KeyNames:    map[string]string{},
	}
	updated, _ := m.Update(fetchOutcomeMsg{outcome: outcome})
	m = updated.(Model)

	s = m.sessions[core.ProviderOpenAI]
	if len(s.costRecords) != 1 || s.costRecords[0].Category != "gpt-4" {
		t.Errorf("records should be replaced, got %+v", s.costRecords)
	}
	if s.errors.Cost != "" {
		t.Error("stale error should be cleared by a successful cycle")
	}
}

func TestUpdate_ProviderSwitchWithoutCredsOpensPopup(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{core.ProviderOpenAI: "sk-oa"})
	m.nav.column = colProvider

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)

	if m.nav.provider != core.ProviderAnthropic {
		t.Fatalf("provider = %v", m.nav.provider)
	}
	if !m.popupActive || m.popupFor != core.ProviderAnthropic {
		t.Error("switching to an unconnected provider should open the popup")
	}
}

func TestUpdate_ProviderSwitchWithCredsTriggersInitialFetch(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{
		core.ProviderOpenAI:    "sk-oa",
		core.ProviderAnthropic: "sk-ant",
	})
	m.nav.column = colProvider
	m.sessions[core.ProviderAnthropic].fetched = false

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)

	if m.nav.provider != core.ProviderAnthropic {
		t.Fatalf("provider = %v", m.nav.provider)
	}
	if cmd == nil {
		t.Error("first visit to a connected provider should start a fetch")
	}
	if !m.sessions[core.ProviderAnthropic].inFlight {
		t.Error("fetch should be marked in flight")
	}
}

func TestUpdate_PopupSubmitConnectsAndFetches(t *testing.T) {
	m := newTestModel(t, nil)
	if !m.popupActive {
		t.Fatal("precondition: popup open")
	}
	m.popupInput.SetValue("  sk-live-key  ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.popupActive {
		t.Error("popup should close on submit")
	}
	if m.sessions[core.ProviderOpenAI].client == nil {
		t.Error("client should be constructed from the submitted key")
	}
	if cmd == nil {
		t.Error("submit should start the initial fetch")
	}
}

func TestUpdate_PopupEmptySubmitIgnored(t *testing.T) {
	m := newTestModel(t, nil)
	m.popupInput.SetValue("   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if !m.popupActive {
		t.Error("popup should stay open on empty submit")
	}
	if cmd != nil {
		t.Error("no fetch should start")
	}
}

func TestUpdate_CredentialsMsgConnectsProvider(t *testing.T) {
	ch := make(chan map[core.Provider]string, 1)
	m := NewModel(map[core.Provider]string{core.ProviderOpenAI: "sk-oa"},
		WithClientFactory(stubFactory), WithCredentialUpdates(ch))

	updated, _ := m.Update(credentialsMsg{keys: map[core.Provider]string{
		core.ProviderAnthropic: "sk-ant",
	}})
	m = updated.(Model)

	if m.sessions[core.ProviderAnthropic].client == nil {
		t.Error("credentials message should connect the provider")
	}
}

func TestScrollChart_ClampedToBars(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{core.ProviderOpenAI: "sk-oa"})
	m.width = 40
	m.height = 30
	s := m.sessions[core.ProviderOpenAI]
	for i := 0; i < 10; i++ {
		s.usageRecords = append(s.usageRecords, core.UsageRecord{
			Date: testDay(i), InputTokens: 100, Model: "gpt-4",
		})
	}

	// The sentinel pins the view to the newest bars; scrolling right
	// cannot go past the end.
	m.scrollChart(1)
	dates := m.chartDates()
	layout := barLayout(len(dates), m.chartWidth(), s.scroll(MetricUsage))
	if layout.startIndex != len(dates)-layout.visibleCount {
		t.Errorf("startIndex = %d, want pinned to right edge", layout.startIndex)
	}

	// Scrolling left peels back one bar at a time down to zero.
	for i := 0; i < 50; i++ {
		m.scrollChart(-1)
	}
	if got := s.scroll(MetricUsage); got != 0 {
		t.Errorf("scroll after many lefts = %d, want 0", got)
	}
}

func TestUpdate_SegmentValueToggle(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{core.ProviderOpenAI: "sk-oa"})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m = updated.(Model)
	if !m.showSegmentValues {
		t.Error("d should enable segment values")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m = updated.(Model)
	if m.showSegmentValues {
		t.Error("d should toggle segment values off")
	}
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{core.ProviderOpenAI: "sk-oa"})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestUpdate_RangeShrinkDropsVanishedFilter(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{core.ProviderOpenAI: "sk-oa"})
	s := m.sessions[core.ProviderOpenAI]
	s.fetched = true

	// "old-model" only on the oldest of 8 days: inside 30d, outside 7d.
	s.usageRecords = append(s.usageRecords, core.UsageRecord{
		Date: testDay(0), InputTokens: 100, Model: "old-model",
	})
	for i := 1; i <= 7; i++ {
		s.usageRecords = append(s.usageRecords, core.UsageRecord{
			Date: testDay(i), InputTokens: 100, Model: "gpt-4",
		})
	}

	m.nav.rng = RangeThirtyDays
	m.nav.selectedFilter = "old-model"
	m.nav.filterCursor = 2
	m.nav.column = colRange

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)

	if m.nav.rng != RangeSevenDays {
		t.Fatalf("rng = %v, want 7d", m.nav.rng)
	}
	if m.nav.selectedFilter != "" {
		t.Errorf("selectedFilter = %q, want cleared: category left the window", m.nav.selectedFilter)
	}
	if m.nav.filterCursor != 0 {
		t.Errorf("filterCursor = %d, want 0", m.nav.filterCursor)
	}
}

func TestUpdate_RangeChangeKeepsSurvivingFilter(t *testing.T) {
	m := newTestModel(t, map[core.Provider]string{core.ProviderOpenAI: "sk-oa"})
	s := m.sessions[core.ProviderOpenAI]
	s.fetched = true
	for i := 0; i <= 7; i++ {
		s.usageRecords = append(s.usageRecords, core.UsageRecord{
			Date: testDay(i), InputTokens: 100, Model: "gpt-4",
		})
	}

	m.nav.rng = RangeThirtyDays
	m.nav.selectedFilter = "gpt-4"
	m.nav.filterCursor = 1
	m.nav.column = colRange

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)

	if m.nav.selectedFilter != "gpt-4" {
		t.Errorf("selectedFilter = %q, want kept: category survives the new range", m.nav.selectedFilter)
	}
}
