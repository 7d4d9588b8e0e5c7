package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.etcd.io/bbolt"

	assessorinadapter "stc/internal/modules/assessor/adapter/in"
	assessoroutadapter "stc/internal/modules/assessor/adapter/out"
	assessorservice "stc/internal/modules/assessor/service"
	assessorusecase "stc/internal/modules/assessor/usecase"
	prefsinadapter "stc/internal/modules/prefs/adapter/in"
	prefsoutadapter "stc/internal/modules/prefs/adapter/out"
	prefsusecase "stc/internal/modules/prefs/usecase"
	rosterinadapter "stc/internal/modules/roster/adapter/in"
	rosteroutadapter "stc/internal/modules/roster/adapter/out"
	rosterservice "stc/internal/modules/roster/service"
	rosterusecase "stc/internal/modules/roster/usecase"
	sessioninadapter "stc/internal/modules/session/adapter/in"
	sessionoutadapter "stc/internal/modules/session/adapter/out"
	sessionservice "stc/internal/modules/session/service"
	sessionusecase "stc/internal/modules/session/usecase"
	"stc/internal/platform/clock"
	"stc/internal/platform/config"
	"stc/internal/platform/id"
	"stc/internal/platform/kv"
	uiapp "stc/internal/ui/app"
)

// App wires every module together and exposes their inbound handlers.
type App struct {
	SessionCLI  sessioninadapter.CLIHandler
	RosterCLI   rosterinadapter.CLIHandler
	PrefsCLI    prefsinadapter.CLIHandler
	AssessorCLI assessorinadapter.CLIHandler

	session *sessionusecase.Interactor
	state   *bbolt.DB
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.ULID{}
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// One bolt handle serves every module; bolt holds an exclusive file lock.
	stateDB, err := kv.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	patientStore := rosteroutadapter.NewNotePatientStore(cfg.DataDir)
	patientProjector, err := rosteroutadapter.NewSQLitePatientProjector(cfg.DBPath)
	if err != nil {
		stateDB.Close()
		return nil, fmt.Errorf("new patient projector: %w", err)
	}
	rosterSvc := rosterservice.NewPatientService(clk, ids, patientStore, patientProjector)
	rosterUC := rosterusecase.NewInteractor(rosterSvc)

	prefsUC := prefsusecase.NewInteractor(prefsoutadapter.NewBoltStore(stateDB))

	assessorUC := assessorusecase.NewInteractor(assessorservice.NewAssessorService(
		assessoroutadapter.NewFileManifestStore(cfg.DataDir),
		assessoroutadapter.NewGRPCHost(),
		assessorservice.NewSimulatedAssessor(time.Now().UnixNano()),
	))

	historyStore, err := sessionoutadapter.NewSQLiteHistoryStore(cfg.DBPath)
	if err != nil {
		stateDB.Close()
		return nil, fmt.Errorf("new history store: %w", err)
	}
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids),
		rosterUC,
		sessionoutadapter.NewBoltStateStore(stateDB),
		historyStore,
		sessionoutadapter.NewReportStore(cfg.DataDir),
		clk,
		log,
	)

	return &App{
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		RosterCLI:   rosterinadapter.NewCLIHandler(rosterUC),
		PrefsCLI:    prefsinadapter.NewCLIHandler(prefsUC),
		AssessorCLI: assessorinadapter.NewCLIHandler(assessorUC),
		session:     sessionUC,
		state:       stateDB,
	}, nil
}

// Resume re-adopts a persisted in-progress session so the elapsed clock is
// ticking before the first command or view runs.
func (a *App) Resume(ctx context.Context) error {
	return a.session.Resume(ctx)
}

// Close stops the session ticker and releases the state store.
func (a *App) Close() error {
	a.session.Close()
	return a.state.Close()
}

func RunTUI(dataDir string, app *App) error {
	model := uiapp.NewModel(dataDir, app.SessionCLI, app.RosterCLI, app.PrefsCLI, app.AssessorCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
