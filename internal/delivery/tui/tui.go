package tui

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/burningsawals/core/internal/model"
	usecase_admin "github.com/burningsawals/core/internal/usecase/admin"
	usecase_auth "github.com/burningsawals/core/internal/usecase/auth"
	usecase_browse "github.com/burningsawals/core/internal/usecase/browse"
	usecase_reaction "github.com/burningsawals/core/internal/usecase/reaction"
)

type AnalyticsGateway interface {
	UserStats(ctx context.Context) ([]model.UserStat, error)
	TopQuestions(ctx context.Context) ([]model.TopQuestion, error)
	Health(ctx context.Context) (model.Health, error)
}

// App is the interactive console front end. One synchronous menu loop: a
// command runs to completion before the next prompt, which doubles as the
// double-submit guard the web UI gets from disabled buttons.
type App struct {
	auth      *usecase_auth.Session
	browse    *usecase_browse.Session
	recorder  *usecase_reaction.Recorder
	admin     *usecase_admin.Session
	analytics AnalyticsGateway

	scanner *bufio.Scanner

	// lastUsernameCheck spaces out availability requests while the user
	// hunts for a free name.
	lastUsernameCheck time.Time
}

const usernameCheckDebounce = 500 * time.Millisecond

func New(
	auth *usecase_auth.Session,
	browse *usecase_browse.Session,
	recorder *usecase_reaction.Recorder,
	admin *usecase_admin.Session,
	analytics AnalyticsGateway,
	scanner *bufio.Scanner,
) *App {
	return &App{
		auth:      auth,
		browse:    browse,
		recorder:  recorder,
		admin:     admin,
		analytics: analytics,
		scanner:   scanner,
	}
}

func (a *App) Run(ctx context.Context) {
	for {
		fmt.Println("\n=== Burning Sawals ===")
		if u := a.auth.User(); u != nil {
			fmt.Printf("Logged in as %s\n", u.UserName)
		}
		fmt.Println("1. Log in")
		fmt.Println("2. Browse questions")
		fmt.Println("3. Admin")
		fmt.Println("4. Analytics")
		fmt.Println("5. Log out")
		fmt.Println("0. Exit")
		fmt.Print("Choose an action: ")

		input, ok := a.readLine()
		if !ok {
			return
		}

		switch input {
		case "1":
			a.loginFlow(ctx)
		case "2":
			a.browseFlow(ctx)
		case "3":
			a.adminFlow(ctx)
		case "4":
			a.analyticsFlow(ctx)
		case "5":
			a.auth.Logout()
			fmt.Println("Logged out.")
		case "0":
			return
		default:
			fmt.Println("Unknown action.")
		}
	}
}

func (a *App) readLine() (string, bool) {
	if !a.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.scanner.Text()), true
}

func (a *App) prompt(label string) (string, bool) {
	fmt.Print(label)
	return a.readLine()
}

func (a *App) promptID(label string) (int64, bool) {
	raw, ok := a.prompt(label)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("Not a number.")
		return 0, false
	}
	return id, true
}

// Auth.

func (a *App) loginFlow(ctx context.Context) {
	channel := model.ChannelPhone
	if raw, ok := a.prompt("Log in with (1) phone or (2) email: "); ok && raw == "2" {
		channel = model.ChannelEmail
	}

	identifier, ok := a.prompt("Phone number or email: ")
	if !ok {
		return
	}

	sent := a.auth.SendOTP(ctx, channel, identifier)
	fmt.Println(sent.Message)
	if !sent.Success {
		return
	}

	userName := ""
	if !sent.IsExistingUser {
		fmt.Println("Looks like you're new here, pick a display name.")
		userName, ok = a.pickUsername(ctx)
		if !ok {
			return
		}
	}

	otp, ok := a.prompt("Enter the OTP you received: ")
	if !ok {
		return
	}

	verified := a.auth.VerifyOTP(ctx, channel, identifier, otp, userName)
	fmt.Println(verified.Message)
	if verified.Success && verified.User != nil {
		fmt.Printf("Welcome, %s!\n", verified.User.UserName)
	}
}

func (a *App) pickUsername(ctx context.Context) (string, bool) {
	for {
		name, ok := a.prompt("Display name: ")
		if !ok {
			return "", false
		}

		if wait := usernameCheckDebounce - time.Since(a.lastUsernameCheck); wait > 0 {
			time.Sleep(wait)
		}
		a.lastUsernameCheck = time.Now()

		check := a.auth.CheckUsername(ctx, name)
		if !check.Success {
			fmt.Println(check.Message)
			continue
		}
		if !check.Available {
			fmt.Println(check.Message)
			continue
		}
		return name, true
	}
}

// Browsing.

func (a *App) browseFlow(ctx context.Context) {
	types, err := a.browse.LoadQuestionTypes(ctx)
	if err != nil {
		fmt.Println("Could not load question types, try again later.")
		return
	}
	if len(types) == 0 {
		fmt.Println("No question types yet.")
		return
	}

	fmt.Println("\nQuestion types:")
	for _, qt := range types {
		fmt.Printf("  %d. %s (%d genres)\n", qt.TypeID, qt.TypeName, len(qt.Genres))
	}
	typeID, ok := a.promptID("Pick a question type: ")
	if !ok {
		return
	}
	if err := a.browse.SelectQuestionType(ctx, typeID); err != nil {
		fmt.Println("No such question type.")
		return
	}

	if id := a.browse.SelectedGenreID(); id != 0 {
		a.browse.SelectGenre(ctx, id)
	}

	a.cardLoop(ctx)
}

func (a *App) cardLoop(ctx context.Context) {
	for {
		a.printCard()
		fmt.Print("[n]ext [p]rev [l]ike [d]islike [s]uper-like [g]enre [q]uit: ")
		input, ok := a.readLine()
		if !ok {
			return
		}

		switch input {
		case "n":
			a.browse.Next()
		case "p":
			a.browse.Prev()
		case "l":
			a.react(ctx, model.ReactionLike)
		case "d":
			a.react(ctx, model.ReactionDislike)
		case "s":
			a.react(ctx, model.ReactionSuperLike)
		case "g":
			a.pickGenre(ctx)
		case "q":
			return
		}
	}
}

func (a *App) printCard() {
	q := a.browse.CurrentQuestion()
	if q.IsEmpty() {
		fmt.Println("\nNo questions here yet. Try another genre.")
		return
	}

	fmt.Printf("\n┌─ %s\n", q.Question)
	fmt.Printf("└─ %s\n", q.Prompt)
	if kind := a.recorder.ActiveReaction(q.QuestionID); kind != model.ReactionNone {
		fmt.Printf("   (your reaction: %s)\n", kind)
	}
}

func (a *App) pickGenre(ctx context.Context) {
	genres := a.browse.Genres()
	if len(genres) == 0 {
		fmt.Println("This type has no genres.")
		return
	}
	fmt.Println("Genres:")
	for _, g := range genres {
		fmt.Printf("  %d. %s\n", g.GenreID, g.Name)
	}
	genreID, ok := a.promptID("Pick a genre: ")
	if !ok {
		return
	}
	a.browse.SelectGenre(ctx, genreID)
}

func (a *App) react(ctx context.Context, kind model.Reaction) {
	q := a.browse.CurrentQuestion()
	if q.IsEmpty() {
		return
	}
	res := a.recorder.SetReaction(ctx, q.QuestionID, kind)
	fmt.Println(res.Message)
}

// Analytics.

func (a *App) analyticsFlow(ctx context.Context) {
	health, err := a.analytics.Health(ctx)
	if err != nil {
		fmt.Println("Analytics unavailable.")
		return
	}
	fmt.Printf("\nService %s, up %s\n", health.Status, health.Uptime)

	stats, err := a.analytics.UserStats(ctx)
	if err == nil && len(stats) > 0 {
		fmt.Println("Users:")
		for _, s := range stats {
			fmt.Printf("  %-20s swipes=%d likes=%d dislikes=%d super=%d\n",
				s.UserName, s.Swipes, s.Likes, s.Dislikes, s.SuperLikes)
		}
	}

	top, err := a.analytics.TopQuestions(ctx)
	if err == nil && len(top) > 0 {
		fmt.Println("Top questions:")
		for _, t := range top {
			fmt.Printf("  %3d ♥  %s\n", t.Likes, t.Question.Question)
		}
	}
}
