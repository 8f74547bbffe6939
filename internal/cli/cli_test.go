package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/combat-tiers/internal/auth"
	"github.com/iliyamo/combat-tiers/internal/handler"
	"github.com/iliyamo/combat-tiers/internal/model"
	"github.com/iliyamo/combat-tiers/internal/repository/memory"
	"github.com/iliyamo/combat-tiers/internal/router"
)

type CLISuite struct {
	suite.Suite
	store *memory.Store
	srv   *httptest.Server
	dir   string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = memory.New()
	s.srv = httptest.NewServer(router.New(handler.NewPlayerHandler(s.store, nil, logger), router.Options{Logger: logger}))
	s.dir = s.T().TempDir()

	t := s.T()
	t.Setenv("TIERCTL_CREDENTIALS", "")
	t.Setenv("TIERCTL_SESSION_SECRET", "")
	t.Setenv("TIERCTL_ADMIN_EMAIL", "ops@tiers.gg")
	t.Setenv("TIERCTL_ADMIN_PASSWORD", "hunter2")
	t.Setenv("TIERCTL_ADMIN_PASSWORD_HASH", "")
}

func (s *CLISuite) TearDownTest() {
	s.srv.Close()
}

// run executes tierctl with stdin and returns combined stdout and the error.
func (s *CLISuite) run(stdin string, args ...string) (string, error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{
		"--server", s.srv.URL,
		"--session-file", filepath.Join(s.dir, "session"),
		"--secret-file", filepath.Join(s.dir, "secret"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (s *CLISuite) login() {
	out, err := s.run("", "login", "--email", "ops@tiers.gg", "--password", "hunter2")
	s.Require().NoError(err, out)
	s.Contains(out, "Logged in as ops@tiers.gg")
}

func (s *CLISuite) seed(name, tierCode, mace, region string) *model.Player {
	p := model.PlayerInput{PlayerName: name, Tier: tierCode, Macetier: mace, Region: region}.ToPlayer(0)
	s.Require().NoError(s.store.Create(context.Background(), p))
	return p
}

func (s *CLISuite) TestPlayersRequireLogin() {
	for _, args := range [][]string{
		{"players", "list"},
		{"players", "add", "--name", "Ann", "--tier", "LT1", "--region", "EU"},
		{"players", "delete", "1", "--yes"},
	} {
		_, err := s.run("", args...)
		s.ErrorIs(err, errLoginRequired, args)
	}
	players, err := s.store.ListAll(context.Background())
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *CLISuite) TestLoginFieldErrors() {
	out, err := s.run("", "login")
	s.Error(err)
	s.Contains(out, "email: Email is required")
	s.Contains(out, "password: Password is required")

	out, err = s.run("", "login", "--email", "ops@tiers", "--password", "x")
	s.Error(err)
	s.Contains(out, "email: Please enter a valid email")

	out, err = s.run("", "login", "--email", "ops@tiers.gg", "--password", "wrong")
	s.Error(err)
	s.Contains(out, "Invalid credentials")

	_, err = os.Stat(filepath.Join(s.dir, "session"))
	s.True(os.IsNotExist(err))
}

func (s *CLISuite) TestLoginFromStdinAndLogout() {
	out, err := s.run("hunter2\n", "login", "--email", "ops@tiers.gg", "--password-stdin")
	s.Require().NoError(err, out)

	_, err = s.run("", "players", "list")
	s.NoError(err)

	_, err = s.run("", "logout")
	s.Require().NoError(err)
	_, err = s.run("", "players", "list")
	s.ErrorIs(err, errLoginRequired)
}

func (s *CLISuite) TestLoginWithHashedCredentialsFile() {
	hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
	s.Require().NoError(err)
	path := filepath.Join(s.dir, "creds.json")
	body, _ := json.Marshal(auth.Credentials{Email: "lead@tiers.gg", PasswordHash: hash})
	s.Require().NoError(os.WriteFile(path, body, 0o600))

	out, err := s.run("", "--credentials", path, "login", "--email", "lead@tiers.gg", "--password", "s3cret")
	s.NoError(err, out)
}

func (s *CLISuite) TestListAndSearch() {
	s.seed("Ann", "LT1", "", "EU")
	s.seed("Bo", "HT3", "LT5", "NA")
	s.login()

	out, err := s.run("", "players", "list")
	s.Require().NoError(err)
	s.Contains(out, "Ann")
	s.Contains(out, "Bo")
	s.Less(strings.Index(out, "Bo"), strings.Index(out, "Ann"), "newest first")
	s.Contains(out, "2 player(s)")

	out, err = s.run("", "players", "list", "--search", "lt5")
	s.Require().NoError(err)
	s.Contains(out, "Bo")
	s.NotContains(out, "Ann")

	out, err = s.run("", "players", "list", "--search", "nobody")
	s.Require().NoError(err)
	s.Contains(out, "No players found")
}

func (s *CLISuite) TestAddValidatesLocally() {
	s.login()

	out, err := s.run("", "players", "add", "--name", " ", "--tier", "LT9")
	s.ErrorIs(err, errInvalidForm)
	s.Contains(out, "playerName: Player name is required")
	s.Contains(out, "region: Region is required")
	s.Contains(out, "tier: Invalid tier. Use: LT5, HT5, LT4, HT4, LT3, HT3, LT2, HT2, LT1, HT1")
	s.Less(strings.Index(out, "playerName:"), strings.Index(out, "region:"))

	out, err = s.run("", "players", "add", "--name", "Ann", "--region", "EU")
	s.ErrorIs(err, errInvalidForm)
	s.Contains(out, "tiers: At least one tier (Tier or Macetier) is required")

	players, err := s.store.ListAll(context.Background())
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *CLISuite) TestAddEditDelete() {
	s.login()

	out, err := s.run("", "players", "add", "--name", "  Ann ", "--tier", "lt1", "--region", "EU")
	s.Require().NoError(err, out)
	s.Contains(out, "Player added successfully")
	s.Contains(out, "Points: 45 (Combat Cadet)")

	out, err = s.run("", "players", "edit", "1", "--macetier", "ht1")
	s.Require().NoError(err, out)
	s.Contains(out, "Player updated successfully")

	players, err := s.store.ListAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal("Ann", players[0].PlayerName)
	s.Equal("LT1", model.StringValue(players[0].TierClass))
	s.Equal("HT1", model.StringValue(players[0].MaceTier))
	s.Equal(105, players[0].Points)

	out, err = s.run("n\n", "players", "delete", "1")
	s.Require().NoError(err)
	s.Contains(out, "Are you sure you want to delete Ann?")
	s.Contains(out, "Cancelled")

	out, err = s.run("y\n", "players", "delete", "1")
	s.Require().NoError(err)
	s.Contains(out, "Player deleted successfully")

	_, err = s.run("", "players", "delete", "1", "--yes")
	s.EqualError(err, "Player not found")
}

func (s *CLISuite) TestEditUnknownPlayer() {
	s.login()
	_, err := s.run("", "players", "edit", "42", "--name", "x")
	s.EqualError(err, "Player not found")

	_, err = s.run("", "players", "edit", "abc")
	s.Error(err)
}

func (s *CLISuite) TestJSONOutput() {
	s.seed("Ann", "LT1", "", "EU")
	s.login()

	out, err := s.run("", "-o", "json", "players", "list")
	s.Require().NoError(err)
	var players []model.Player
	s.Require().NoError(json.Unmarshal([]byte(out), &players))
	s.Len(players, 1)
}

func (s *CLISuite) TestScoreAndHealth() {
	out, err := s.run("", "score", "--tier", "HT3", "--macetier", "lt5")
	s.Require().NoError(err)
	s.Contains(out, "Points: 11")
	s.Contains(out, "Title: Combat Novice")

	out, err = s.run("", "score", "--tier", "XX")
	s.ErrorIs(err, errInvalidForm)
	s.Contains(out, "tier: Invalid tier")

	out, err = s.run("", "health")
	s.Require().NoError(err)
	s.Contains(out, "Status: ok")
}

func TestFilterPlayers(t *testing.T) {
	lt1 := "LT1"
	players := []model.Player{
		{ID: 1, PlayerName: "Ann", Region: "EU", PlayerTitle: "Combat Cadet", TierClass: &lt1},
		{ID: 2, PlayerName: "Bo", Region: "NA", PlayerTitle: "Rookie"},
	}

	assert.Len(t, FilterPlayers(players, ""), 2)
	assert.Equal(t, []model.Player{players[0]}, FilterPlayers(players, "cadet"))
	assert.Equal(t, []model.Player{players[0]}, FilterPlayers(players, "lt"))
	assert.Equal(t, []model.Player{players[1]}, FilterPlayers(players, "na"))
	assert.Empty(t, FilterPlayers(players, "zzz"))
}

func TestHashPassword(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("hunter2\n"))
	cmd.SetArgs([]string{"hash-password", "--cost", "4"})
	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
}
