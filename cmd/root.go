package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abhisek/intervue/internal/evaluation"
	"github.com/abhisek/intervue/internal/interview"
	"github.com/abhisek/intervue/internal/llm"
	"github.com/abhisek/intervue/internal/logger"
	"github.com/abhisek/intervue/internal/questiongen"
	"github.com/abhisek/intervue/internal/session"
)

const app = "intervue"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "AI interview practice in the terminal",
	Long:  "Intervue runs adaptive mock interviews: it generates questions from your profile, scores each answer, and produces a final report.",
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("db", "", "Path to SQLite session database (default is in-memory sessions)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.SetEnvPrefix("INTERVUE")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger() (*zap.Logger, error) {
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"))
}

// openStore returns the session store selected by --db: a SQLite-backed
// store when a path is given, otherwise in-memory.
func openStore() (session.Store, func() error, error) {
	if path := viper.GetString("db"); path != "" {
		st, err := session.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
	return session.NewMemoryStore(), func() error { return nil }, nil
}

// buildService wires the gateway, generator, evaluator and store into
// the interview service.
func buildService(cmd *cobra.Command, log *zap.Logger) (*interview.Service, *llm.Gateway, func() error, error) {
	gateway, err := llm.NewGateway(cmd.Context(), llm.ConfigFromEnv(), log)
	if err != nil {
		return nil, nil, nil, err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return nil, nil, nil, err
	}

	svc := interview.NewService(
		store,
		questiongen.New(gateway, questiongen.DefaultConfig(), log),
		evaluation.New(gateway, evaluation.DefaultConfig(), log),
		log,
	)
	return svc, gateway, closeStore, nil
}
