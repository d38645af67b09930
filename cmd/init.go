package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/timestudy-cli/internal/session"
	"github.com/KaramelBytes/timestudy-cli/internal/store"
	"github.com/KaramelBytes/timestudy-cli/internal/utils"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <session-name>",
	Short: "Create a new time-study session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		// Refuse to overwrite an existing session.
		if st.Exists(name) {
			return fmt.Errorf("session %q already exists", name)
		}
		s := session.New(name, "", cfg.GroupPalette)
		if err := st.Save(s); err != nil {
			return err
		}
		fmt.Printf("✓ Session initialized: %s (%s backend)\n", name, cfg.StoreBackend)
		return nil
	},
}

// sessionsDir resolves the configured sessions directory.
func sessionsDir() (string, error) {
	c, err := requireConfig()
	if err != nil {
		return "", err
	}
	dir, err := utils.ExpandHome(c.SessionsDir)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func openStore() (store.Store, error) {
	dir, err := sessionsDir()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.StoreBackend, dir, cfg.GroupPalette)
}

// currentSession is the -s flag, else default_session from config.
func currentSession() (string, error) {
	if sessionName != "" {
		return sessionName, nil
	}
	c, err := requireConfig()
	if err != nil {
		return "", err
	}
	if c.DefaultSession != "" {
		return c.DefaultSession, nil
	}
	return "", errors.New("session name is required (use -s or set default_session)")
}

// withSession loads the current session, runs fn and saves when fn reports a change.
// The default session is created on first use.
func withSession(fn func(s *session.Session) (bool, error)) error {
	name, err := currentSession()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	s, err := st.Load(name)
	switch {
	case errors.Is(err, session.ErrNotFound) && name == cfg.DefaultSession:
		s = session.New(name, "", cfg.GroupPalette)
	case err != nil:
		return err
	}
	changed, err := fn(s)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return st.Save(s)
}

func init() {
	rootCmd.AddCommand(initCmd)
}
