package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	assessordto "stc/internal/modules/assessor/dto"
	sessiondto "stc/internal/modules/session/dto"
	"stc/internal/bootstrap"
	"stc/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "stc",
		Short:         "Speech Therapy Companion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newActivityCmd(&dataDir))
	root.AddCommand(newBreakCmd(&dataDir))
	root.AddCommand(newInterventionCmd(&dataDir))
	root.AddCommand(newAchievementCmd(&dataDir))
	root.AddCommand(newSampleCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newRosterCmd(&dataDir))
	root.AddCommand(newPrefsCmd(&dataDir))
	root.AddCommand(newAssessorCmd(&dataDir))
	return root
}

// loadApp builds the full dependency graph and re-adopts any persisted
// in-progress session before the command body runs.
func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := app.Resume(context.Background()); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func printDisposition(cmd *cobra.Command, d sessiondto.Disposition) bool {
	if d.Applied() {
		return true
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(d))
	return false
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run stc terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(*dataDir, app)
		},
	}
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Manage the active therapy session"}

	var minutes int
	startCmd := &cobra.Command{
		Use:   "start <patient-id> <therapist-id>",
		Short: "Start a session, superseding any active one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.StartSession(context.Background(), args[0], args[1], minutes)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s started for %s (%d min planned)\n", out.SessionID, out.PatientName, out.PlannedMinutes)
			if out.SupersededID != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "superseded session %s\n", out.SupersededID)
			}
			return nil
		},
	}
	startCmd.Flags().IntVar(&minutes, "minutes", 0, "planned duration in minutes (0 = default)")

	endCmd := &cobra.Command{
		Use:   "end",
		Short: "End the active session and write its report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.EndSession(context.Background())
			if err != nil {
				return err
			}
			if !printDisposition(cmd, out.Disposition) {
				return nil
			}
			if out.ForcedActivityID != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "force-closed open activity %s\n", out.ForcedActivityID)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s ended: %d min, %d tokens\n", out.SessionID, out.ActualMinutes, out.TokensEarned)
			if out.ReportPath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report: %s\n", out.ReportPath)
			}
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Status(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !out.Active {
				_, _ = fmt.Fprintln(w, "no active session")
				return nil
			}
			_, _ = fmt.Fprintf(w, "session %s  patient=%s  therapist=%s\n", out.SessionID, out.PatientID, out.TherapistID)
			_, _ = fmt.Fprintf(w, "elapsed %02d:%02d of %d min  remaining %ds  tokens=%d\n",
				out.ElapsedSeconds/60, out.ElapsedSeconds%60, out.PlannedMinutes, out.RemainingSeconds, out.TokensEarned)
			if out.OnBreak {
				_, _ = fmt.Fprintln(w, "on break")
			}
			if out.CurrentActivity != nil {
				_, _ = fmt.Fprintf(w, "activity %s (%s, difficulty %d)\n",
					out.CurrentActivity.ID, out.CurrentActivity.Type, out.CurrentActivity.Difficulty)
			}
			return nil
		},
	}

	notesCmd := &cobra.Command{
		Use:   "notes <text>",
		Short: "Replace the session notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.UpdateNotes(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if printDisposition(cmd, out.Disposition) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "notes updated")
			}
			return nil
		},
	}

	session.AddCommand(startCmd, endCmd, statusCmd, notesCmd)
	return session
}

func newActivityCmd(dataDir *string) *cobra.Command {
	activity := &cobra.Command{Use: "activity", Short: "Track activities within the session"}

	var sounds, patterns []string
	var difficulty int
	startCmd := &cobra.Command{
		Use:   "start <type>",
		Short: "Open an activity, force-closing any open one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.StartActivity(context.Background(), args[0], sounds, patterns, difficulty)
			if err != nil {
				return err
			}
			if !printDisposition(cmd, out.Disposition) {
				return nil
			}
			if out.ForcedActivityID != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "force-closed open activity %s\n", out.ForcedActivityID)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "activity %s started\n", out.ActivityID)
			return nil
		},
	}
	startCmd.Flags().StringSliceVar(&sounds, "sounds", nil, "target sounds")
	startCmd.Flags().StringSliceVar(&patterns, "patterns", nil, "target patterns")
	startCmd.Flags().IntVar(&difficulty, "difficulty", 2, "difficulty 1-3")

	var notes string
	endCmd := &cobra.Command{
		Use:   "end <engagement> <success%> <tokens>",
		Short: "Close the open activity with its outcome",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			engagement, success, tokens, err := threeInts(args)
			if err != nil {
				return err
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.EndActivity(context.Background(), engagement, success, tokens, notes)
			if err != nil {
				return err
			}
			if printDisposition(cmd, out.Disposition) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "activity %s closed after %ds, session tokens=%d\n",
					out.ActivityID, out.DurationSeconds, out.SessionTokens)
			}
			return nil
		},
	}
	endCmd.Flags().StringVar(&notes, "notes", "", "activity notes")

	activity.AddCommand(startCmd, endCmd)
	return activity
}

func newBreakCmd(dataDir *string) *cobra.Command {
	breakCmd := &cobra.Command{Use: "break", Short: "Track breaks within the session"}

	var kind string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Open a break, force-closing any open activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.StartBreak(context.Background(), kind)
			if err != nil {
				return err
			}
			if !printDisposition(cmd, out.Disposition) {
				return nil
			}
			if out.ForcedActivityID != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "force-closed open activity %s\n", out.ForcedActivityID)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s break %s started\n", kind, out.BreakID)
			return nil
		},
	}
	startCmd.Flags().StringVar(&kind, "kind", "requested", "scheduled|requested|emergency")

	var effectiveness int
	var notes string
	endCmd := &cobra.Command{
		Use:   "end",
		Short: "Close the open break",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.EndBreak(context.Background(), effectiveness, notes)
			if err != nil {
				return err
			}
			if printDisposition(cmd, out.Disposition) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "break %s ended after %ds\n", out.BreakID, out.DurationSeconds)
			}
			return nil
		},
	}
	endCmd.Flags().IntVar(&effectiveness, "effectiveness", 0, "effectiveness 1-5")
	endCmd.Flags().StringVar(&notes, "notes", "", "break notes")

	breakCmd.AddCommand(startCmd, endCmd)
	return breakCmd
}

func newInterventionCmd(dataDir *string) *cobra.Command {
	var effectiveness int
	var notes string
	cmd := &cobra.Command{
		Use:   "intervention <kind>",
		Short: "Record an intervention (attention|motivation|difficulty|reset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.RecordIntervention(context.Background(), args[0], effectiveness, notes)
			if err != nil {
				return err
			}
			if printDisposition(cmd, out.Disposition) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "intervention %s recorded on activity %s\n", out.InterventionID, out.ActivityID)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&effectiveness, "effectiveness", 0, "effectiveness 1-5")
	cmd.Flags().StringVar(&notes, "notes", "", "intervention notes")
	return cmd
}

func newAchievementCmd(dataDir *string) *cobra.Command {
	var reward, notes string
	cmd := &cobra.Command{
		Use:   "achievement <kind> <description>",
		Short: "Record an achievement",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.RecordAchievement(context.Background(), args[0], strings.Join(args[1:], " "), reward, notes)
			if err != nil {
				return err
			}
			if printDisposition(cmd, out.Disposition) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "achievement %s recorded\n", out.AchievementID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&reward, "reward", "", "reward granted")
	cmd.Flags().StringVar(&notes, "notes", "", "achievement notes")
	return cmd
}

func newSampleCmd(dataDir *string) *cobra.Command {
	var assessor, transcription, recording string
	var attempt int
	cmd := &cobra.Command{
		Use:   "sample <sound> <word>",
		Short: "Assess a speech sample and record it on the open activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if transcription == "" {
				transcription = args[1]
			}
			status, err := app.SessionCLI.Status(context.Background())
			if err != nil {
				return err
			}
			difficulty := 2
			if status.CurrentActivity != nil && status.CurrentActivity.Difficulty > 0 {
				difficulty = status.CurrentActivity.Difficulty
			}

			assessment, err := app.AssessorCLI.Assess(context.Background(), assessordto.AssessInput{
				Assessor:      assessor,
				TargetSound:   args[0],
				TargetWord:    args[1],
				Transcription: transcription,
				Difficulty:    difficulty,
				Attempt:       attempt,
			})
			if err != nil {
				return err
			}

			out, err := app.SessionCLI.RecordSample(context.Background(), sessiondto.SampleInput{
				TargetSound:   args[0],
				TargetWord:    args[1],
				RecordingRef:  recording,
				Transcription: transcription,
				Machine: sessiondto.AssessmentInput{
					Recognized: assessment.Recognized,
					Clarity:    assessment.Clarity,
					Accuracy:   assessment.Accuracy,
					Notes:      assessment.Notes,
				},
			})
			if err != nil {
				return err
			}
			if !printDisposition(cmd, out.Disposition) {
				return nil
			}
			verdict := "recognized"
			if !assessment.Recognized {
				verdict = "not recognized"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sample %s: %s, clarity=%d accuracy=%d, suggested tokens=%d\n",
				out.SampleID, verdict, assessment.Clarity, assessment.Accuracy, assessment.SuggestedTokens)
			return nil
		},
	}
	cmd.Flags().StringVar(&assessor, "assessor", "", "assessor name (default: built-in simulated)")
	cmd.Flags().StringVar(&transcription, "transcription", "", "what the child actually said")
	cmd.Flags().StringVar(&recording, "recording", "", "recording reference")
	cmd.Flags().IntVar(&attempt, "attempt", 0, "attempt number for this word")
	return cmd
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			summaries, err := app.SessionCLI.History(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(summaries) == 0 {
				_, _ = fmt.Fprintln(w, "no sessions recorded")
				return nil
			}
			for _, s := range summaries {
				_, _ = fmt.Fprintf(w, "%s  %s  patient=%s  %s  %d min  %d tokens  activities=%d breaks=%d\n",
					s.Date.Format("2006-01-02 15:04"), s.ID, s.PatientID, s.Status, s.ActualMinutes, s.TokensEarned, s.Activities, s.Breaks)
			}
			return nil
		},
	}
}

func newRosterCmd(dataDir *string) *cobra.Command {
	roster := &cobra.Command{Use: "roster", Short: "Manage the patient roster"}

	var birthDate string
	var sounds, patterns []string
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a patient note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.RosterCLI.AddPatient(context.Background(), strings.Join(args, " "), birthDate, sounds, patterns)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) note=%s\n", out.Name, out.ID, out.NotePath)
			return nil
		},
	}
	addCmd.Flags().StringVar(&birthDate, "birth", "", "birth date YYYY-MM-DD")
	addCmd.Flags().StringSliceVar(&sounds, "sounds", nil, "target sounds")
	addCmd.Flags().StringSliceVar(&patterns, "patterns", nil, "target patterns")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			patients, err := app.RosterCLI.ListPatients(context.Background())
			if err != nil {
				return err
			}
			for _, p := range patients {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  tokens=%d\n", p.ID, p.Name, p.TokenBalance)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <patient-id>",
		Short: "Show a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			p, err := app.RosterCLI.GetPatient(context.Background(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s (%s)  status=%s  tokens=%d\n", p.Name, p.ID, p.Status, p.TokenBalance)
			if p.BirthDate != "" {
				_, _ = fmt.Fprintf(w, "born %s\n", p.BirthDate)
			}
			if len(p.TargetSounds) > 0 {
				_, _ = fmt.Fprintf(w, "sounds: %s\n", strings.Join(p.TargetSounds, ", "))
			}
			if len(p.TargetPatterns) > 0 {
				_, _ = fmt.Fprintf(w, "patterns: %s\n", strings.Join(p.TargetPatterns, ", "))
			}
			if p.LastSessionID != "" {
				_, _ = fmt.Fprintf(w, "last session: %s\n", p.LastSessionID)
			}
			_, _ = fmt.Fprintf(w, "note: %s\n", p.NotePath)
			return nil
		},
	}

	var targetSounds, targetPatterns []string
	targetsCmd := &cobra.Command{
		Use:   "targets <patient-id>",
		Short: "Replace a patient's target sounds and patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.RosterCLI.UpdateTargets(context.Background(), args[0], targetSounds, targetPatterns)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated targets for %s\n", out.Name)
			return nil
		},
	}
	targetsCmd.Flags().StringSliceVar(&targetSounds, "sounds", nil, "target sounds")
	targetsCmd.Flags().StringSliceVar(&targetPatterns, "patterns", nil, "target patterns")

	reindexCmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the patient index from notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.RosterCLI.Reindex(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reindexed")
			return nil
		},
	}

	roster.AddCommand(addCmd, listCmd, showCmd, targetsCmd, reindexCmd)
	return roster
}

func newPrefsCmd(dataDir *string) *cobra.Command {
	prefs := &cobra.Command{Use: "prefs", Short: "Accessibility preferences"}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			p, err := app.PrefsCLI.Get(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "text_size       %s\n", p.TextSize)
			_, _ = fmt.Fprintf(w, "high_contrast   %t\n", p.HighContrast)
			_, _ = fmt.Fprintf(w, "reduced_motion  %t\n", p.ReducedMotion)
			_, _ = fmt.Fprintf(w, "audio_volume    %d\n", p.AudioVolume)
			_, _ = fmt.Fprintf(w, "haptics         %t\n", p.Haptics)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if _, err := app.PrefsCLI.Set(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
			return nil
		},
	}

	prefs.AddCommand(showCmd, setCmd)
	return prefs
}

func newAssessorCmd(dataDir *string) *cobra.Command {
	assessor := &cobra.Command{Use: "assessor", Short: "Manage speech assessors"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available assessors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			infos, err := app.AssessorCLI.List(context.Background())
			if err != nil {
				return err
			}
			for _, info := range infos {
				kind := "external"
				if info.Builtin {
					kind = "builtin"
				}
				state := "enabled"
				if !info.Enabled {
					state = "disabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n", info.Name, info.Version, kind, state)
			}
			return nil
		},
	}

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external assessor health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			results, err := app.AssessorCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(results) == 0 {
				_, _ = fmt.Fprintln(w, "no external assessors configured")
				return nil
			}
			for _, r := range results {
				status := "ok"
				if r.Error != "" {
					status = r.Error
				}
				_, _ = fmt.Fprintf(w, "%s  checksum=%t binary=%t lifecycle=%t  %s\n",
					r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK, status)
			}
			return nil
		},
	}

	var name, transcription string
	var difficulty, attempt int
	assessCmd := &cobra.Command{
		Use:   "assess <sound> <word>",
		Short: "Run a one-off assessment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if transcription == "" {
				transcription = args[1]
			}
			out, err := app.AssessorCLI.Assess(context.Background(), assessordto.AssessInput{
				Assessor:      name,
				TargetSound:   args[0],
				TargetWord:    args[1],
				Transcription: transcription,
				Difficulty:    difficulty,
				Attempt:       attempt,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: recognized=%t clarity=%d accuracy=%d tokens=%d  %s\n",
				out.Assessor, out.Recognized, out.Clarity, out.Accuracy, out.SuggestedTokens, out.Notes)
			return nil
		},
	}
	assessCmd.Flags().StringVar(&name, "assessor", "", "assessor name (default: built-in simulated)")
	assessCmd.Flags().StringVar(&transcription, "transcription", "", "what the child actually said")
	assessCmd.Flags().IntVar(&difficulty, "difficulty", 2, "difficulty 1-3")
	assessCmd.Flags().IntVar(&attempt, "attempt", 0, "attempt number")

	assessor.AddCommand(listCmd, doctorCmd, assessCmd)
	return assessor
}

func threeInts(args []string) (int, int, int, error) {
	var a, b, c int
	if _, err := fmt.Sscanf(strings.Join(args, " "), "%d %d %d", &a, &b, &c); err != nil {
		return 0, 0, 0, fmt.Errorf("expected three numbers, got %q", strings.Join(args, " "))
	}
	return a, b, c, nil
}
