package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/apiclient"
	"github.com/stemsi/exstem-client/internal/authstore"
	"github.com/stemsi/exstem-client/internal/config"
	"github.com/stemsi/exstem-client/internal/database"
	"github.com/stemsi/exstem-client/internal/logger"
	"github.com/stemsi/exstem-client/internal/model"
	"github.com/stemsi/exstem-client/internal/roles"
	"github.com/stemsi/exstem-client/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// stdout belongs to the exam; logs go to stderr.
	log := logger.SetupWriter(os.Stderr, "take-exam", cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Open Credential Store ─────────────────────────────────────────
	store, closeStore, err := database.OpenCredentialStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.CredentialStore).Msg("Failed to open credential store")
	}
	defer closeStore()

	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, store, log)
	authService := service.NewAuthService(client, store, log)
	studentService := service.NewStudentService(client)

	reader := bufio.NewReader(os.Stdin)

	// ─── Sign In ───────────────────────────────────────────────────────
	dec, creds, err := authService.Guard(ctx, model.RoleStudent)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read credentials")
	}
	if !dec.Allow && dec.RedirectTo == roles.PathLogin {
		creds, err = login(ctx, authService, reader)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		dec, _, _ = authService.Guard(ctx, model.RoleStudent)
	}
	if !dec.Allow {
		fmt.Printf("This account is a %s account; exams are taken from a student account (open %s in the web app).\n",
			strings.ToLower(string(creds.User.Role)), dec.RedirectTo)
		os.Exit(1)
	}
	fmt.Printf("Signed in as %s\n", displayName(creds.User))

	// From here on Ctrl+C abandons the attempt instead of killing the process.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	in := newInput(reader)

	// ─── Pick and Take an Exam ─────────────────────────────────────────
	for {
		examID, ok := pickExam(ctx, studentService, in)
		if !ok {
			return
		}

		r := newRunner(client, studentService, in, cfg.TickInterval, log)
		switch r.run(ctx, examID) {
		case outcomeSubmitted, outcomeInterrupted:
			return
		case outcomeBack:
			continue
		}
	}
}

func login(ctx context.Context, auth *service.AuthService, reader *bufio.Reader) (*authstore.Credentials, error) {
	fmt.Println("=== Sign In ===")

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}

	fmt.Print("Password: ")
	password, err := readPassword(reader)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	creds, err := auth.Login(ctx, &model.LoginRequest{Username: username, Password: password})
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return nil, fmt.Errorf("login failed: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return creds, nil
}

// readPassword hides input on a terminal and falls back to a plain line
// when stdin is piped.
func readPassword(reader *bufio.Reader) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		pw, _ := reader.ReadString('\n')
		return strings.TrimSpace(pw), nil
	}
	raw, err := term.ReadPassword(fd)
	fmt.Println() // Newline after password input
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

func pickExam(ctx context.Context, students *service.StudentService, in *input) (int64, bool) {
	exams, err := students.AvailableExams(ctx)
	if err != nil {
		fmt.Println("Failed to load available exams:", err)
		return 0, false
	}
	if len(exams) == 0 {
		fmt.Println("No exams are available right now.")
		return 0, false
	}

	fmt.Println("\n=== Available Exams ===")
	for i, e := range exams {
		fmt.Printf("%2d) %s  [%d min, %d questions]\n", i+1, e.Title, e.Duration, e.QuestionCount)
		if e.Description != "" {
			fmt.Printf("    %s\n", e.Description)
		}
	}

	for {
		fmt.Print("Exam number (empty to quit): ")
		raw, ok := in.line(ctx)
		if !ok || raw == "" {
			return 0, false
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > len(exams) {
			fmt.Printf("Pick a number between 1 and %d.\n", len(exams))
			continue
		}
		return exams[n-1].ID, true
	}
}

func displayName(u model.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// input delivers stdin lines through a channel so prompts can also
// react to cancellation and to the attempt finishing on its own.
type input struct {
	lines chan string
}

func newInput(r io.Reader) *input {
	in := &input{lines: make(chan string)}
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			in.lines <- strings.TrimSpace(sc.Text())
		}
		close(in.lines)
	}()
	return in
}

func (in *input) line(ctx context.Context) (string, bool) {
	select {
	case l, ok := <-in.lines:
		return l, ok
	case <-ctx.Done():
		return "", false
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
