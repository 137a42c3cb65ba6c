package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campusconnect",
		Short: "College and scholarship directory backend",
		Long: `CampusConnect: the API backend for a public directory of colleges and
scholarships. Institutions and scholarship providers manage their own
listings through invitation-only admin accounts; premium profile features
are gated by a Stripe subscription.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./campusconnect.yaml)")

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newInviteCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("campusconnect")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.campusconnect")
	}

	viper.SetEnvPrefix("CAMPUSCONNECT")
	viper.AutomaticEnv()
	viper.ReadInConfig() // config file is optional

	viper.SetDefault("db.driver", "sqlite")
	viper.SetDefault("db.dsn", "")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
}
