package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/burningsawals/core/internal/model"
	usecase_admin "github.com/burningsawals/core/internal/usecase/admin"
)

func (a *App) report(res usecase_admin.Result) {
	if res.Success {
		fmt.Println("Done.")
		return
	}
	if res.Field != "" {
		fmt.Printf("%s: %s\n", res.Field, res.Message)
		return
	}
	fmt.Println(res.Message)
}

func (a *App) adminFlow(ctx context.Context) {
	if !a.auth.IsAuthenticated() {
		fmt.Println("Log in first.")
		return
	}
	if err := a.admin.LoadCatalog(ctx); err != nil {
		fmt.Println("Could not load the catalog, try again later.")
		return
	}

	for {
		fmt.Println("\n--- Admin ---")
		fmt.Println("1. Question types")
		fmt.Println("2. Genres")
		fmt.Println("3. Questions")
		fmt.Println("0. Back")
		fmt.Print("Choose a section: ")

		input, ok := a.readLine()
		if !ok {
			return
		}
		switch input {
		case "1":
			a.adminTypes(ctx)
		case "2":
			a.adminGenres(ctx)
		case "3":
			a.adminQuestions(ctx)
		case "0":
			return
		}
	}
}

func (a *App) adminTypes(ctx context.Context) {
	for {
		fmt.Println("\nQuestion types:")
		for _, qt := range a.admin.Types() {
			names := make([]string, 0, len(qt.Genres))
			for _, g := range qt.Genres {
				names = append(names, g.Name)
			}
			fmt.Printf("  %d. %s [%s]\n", qt.TypeID, qt.TypeName, strings.Join(names, ", "))
		}
		fmt.Println("1. Create  2. Rename  3. Delete  4. Attach genres  5. Detach genres  0. Back")
		input, ok := a.readLine()
		if !ok {
			return
		}

		switch input {
		case "1":
			name, ok := a.prompt("Type name: ")
			if !ok {
				return
			}
			a.report(a.admin.CreateQuestionType(ctx, name))
		case "2":
			id, ok := a.promptID("Type id: ")
			if !ok {
				continue
			}
			name, ok := a.prompt("New name: ")
			if !ok {
				return
			}
			a.report(a.admin.RenameQuestionType(ctx, id, name))
		case "3":
			id, ok := a.promptID("Type id: ")
			if !ok {
				continue
			}
			a.report(a.admin.DeleteQuestionType(ctx, id))
		case "4":
			id, ok := a.promptID("Type id: ")
			if !ok {
				continue
			}
			ids, ok := a.promptIDList("Genre ids (comma separated): ")
			if !ok {
				continue
			}
			a.report(a.admin.AddGenresToQuestionType(ctx, id, ids))
		case "5":
			id, ok := a.promptID("Type id: ")
			if !ok {
				continue
			}
			ids, ok := a.promptIDList("Genre ids (comma separated): ")
			if !ok {
				continue
			}
			a.report(a.admin.RemoveGenresFromQuestionType(ctx, id, ids))
		case "0":
			return
		}
	}
}

func (a *App) adminGenres(ctx context.Context) {
	for {
		fmt.Println("\nGenres:")
		for _, g := range a.admin.GenreList() {
			fmt.Printf("  %d. %s (type %d)\n", g.GenreID, g.Name, g.TypeID)
		}
		fmt.Println("1. Create  2. Rename  3. Delete  0. Back")
		input, ok := a.readLine()
		if !ok {
			return
		}

		switch input {
		case "1":
			name, ok := a.prompt("Genre name: ")
			if !ok {
				return
			}
			typeID, ok := a.promptID("Question type id: ")
			if !ok {
				continue
			}
			a.report(a.admin.CreateGenre(ctx, name, typeID))
		case "2":
			id, ok := a.promptID("Genre id: ")
			if !ok {
				continue
			}
			name, ok := a.prompt("New name: ")
			if !ok {
				return
			}
			a.report(a.admin.RenameGenre(ctx, id, name))
		case "3":
			id, ok := a.promptID("Genre id: ")
			if !ok {
				continue
			}
			a.report(a.admin.DeleteGenre(ctx, id))
		case "0":
			return
		}
	}
}

func (a *App) adminQuestions(ctx context.Context) {
	for {
		fmt.Println("\nQuestions:")
		for _, q := range a.admin.QuestionList() {
			fmt.Printf("  %d. %s\n", q.QuestionID, q.Question)
		}
		fmt.Println("1. Create  2. Update  3. Delete  0. Back")
		input, ok := a.readLine()
		if !ok {
			return
		}

		switch input {
		case "1":
			in, ok := a.promptQuestion()
			if !ok {
				continue
			}
			a.report(a.admin.CreateQuestion(ctx, in))
		case "2":
			id, ok := a.promptID("Question id: ")
			if !ok {
				continue
			}
			in, ok := a.promptQuestion()
			if !ok {
				continue
			}
			a.report(a.admin.UpdateQuestion(ctx, id, in))
		case "3":
			id, ok := a.promptID("Question id: ")
			if !ok {
				continue
			}
			a.report(a.admin.DeleteQuestion(ctx, id))
		case "0":
			return
		}
	}
}

func (a *App) promptQuestion() (model.QuestionInput, bool) {
	question, ok := a.prompt("Question text: ")
	if !ok {
		return model.QuestionInput{}, false
	}
	hint, ok := a.prompt("Prompt text: ")
	if !ok {
		return model.QuestionInput{}, false
	}
	ids, ok := a.promptIDList("Genre ids (comma separated): ")
	if !ok {
		return model.QuestionInput{}, false
	}

	return model.QuestionInput{Question: question, Prompt: hint, GenreIDs: ids}, true
}

func (a *App) promptIDList(label string) ([]int64, bool) {
	raw, ok := a.prompt(label)
	if !ok {
		return nil, false
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			fmt.Println("Not a number:", p)
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
