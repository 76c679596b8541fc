// rbox is a command line client for a RecipeBox server. Without a login it
// works entirely against local guest storage; after login it talks to the
// backend, migrating any guest recipes on first login.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dukerupert/recipebox/internal/config"
	"github.com/dukerupert/recipebox/internal/form"
	"github.com/dukerupert/recipebox/internal/logging"
	"github.com/dukerupert/recipebox/internal/planner"
	"github.com/dukerupert/recipebox/internal/record"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger := logging.Setup(os.Getenv("RBOX_LOG_LEVEL"))

	cfg, cfgPath, err := config.Load(os.Getenv("RBOX_CONFIG"))
	if err != nil {
		fatal(err)
	}

	local, err := record.NewLocalStore(cfg.Data.Dir, logger.With("component", "local"))
	if err != nil {
		fatal(err)
	}
	if local.IsFirstLaunch() {
		if err := local.MarkLaunched(); err != nil {
			logger.Warn("mark first launch", "error", err)
		}
	}

	client := record.NewClient(cfg.Server.URL)
	client.Token = cfg.Session.Token
	remote := record.NewRemoteStore(client)

	var session *record.Session
	if cfg.Session.Token != "" {
		session = &record.Session{Token: cfg.Session.Token, UserID: cfg.Session.UserID}
	}
	store := record.ForSession(session, local, remote)

	app := &app{
		cfg:     cfg,
		cfgPath: cfgPath,
		local:   local,
		remote:  remote,
		client:  client,
		store:   store,
		logger:  logger,
	}

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fatal(err)
	}
}

type app struct {
	cfg     *config.Config
	cfgPath string
	local   *record.LocalStore
	remote  *record.RemoteStore
	client  *record.Client
	store   record.Store
	logger  *slog.Logger
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.authenticate(ctx, args, a.client.Register)
	case "login":
		return a.authenticate(ctx, args, a.client.Login)
	case "logout":
		return a.logout(ctx)
	case "sync":
		return a.sync(ctx)
	case "recipes":
		return a.recipes(ctx, args)
	case "plan":
		return a.plan(ctx, args)
	case "shop":
		return a.shop(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: rbox <command> [args]

  register <email> <password>   create an account and sign in
  login <email> <password>      sign in (guest recipes are migrated)
  logout                        sign out
  sync                          migrate guest recipes to the account

  recipes list                  list recipes
  recipes add <title> [body]    add a recipe
  recipes show <id>             show one recipe
  recipes rm <id>               delete a recipe

  plan [next]                   show the week's meal plan
  plan add <date> <meal> <text> add a custom-text entry
  plan rm <id>                  delete an entry

  shop list                     show the shopping list
  shop add <text>               add an item
  shop toggle <id>              toggle completion
  shop rm <id>                  delete an item
  shop clear                    delete every item`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "rbox:", err)
	os.Exit(1)
}

func (a *app) authenticate(ctx context.Context, args []string, fn func(context.Context, string, string) (*record.Session, error)) error {
	if len(args) != 2 {
		return fmt.Errorf("expected <email> <password>")
	}

	session, err := fn(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	a.cfg.Session = config.Session{Token: session.Token, UserID: session.UserID}
	if err := a.cfg.Save(a.cfgPath); err != nil {
		return err
	}
	fmt.Println("signed in as", args[0])

	a.store = a.remote
	return a.sync(ctx)
}

func (a *app) logout(ctx context.Context) error {
	if a.cfg.Session.Token == "" {
		fmt.Println("not signed in")
		return nil
	}
	if err := a.client.Logout(ctx); err != nil {
		// Session may already be gone server-side; drop it locally regardless
		fmt.Fprintln(os.Stderr, "rbox: logout:", err)
	}
	a.cfg.Session = config.Session{}
	return a.cfg.Save(a.cfgPath)
}

func (a *app) sync(ctx context.Context) error {
	if a.cfg.Session.Token == "" {
		return fmt.Errorf("sign in first")
	}

	syncer := record.NewSyncer(a.local, a.remote, a.client, a.logger.With("component", "sync"))
	if !syncer.Needed(ctx) {
		return nil
	}

	report, err := syncer.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("synced %d/%d guest recipes\n", report.Synced, report.Total)
	return nil
}

func (a *app) recipes(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		recipes, err := a.store.ListRecipes(ctx)
		if err != nil {
			return err
		}
		for _, r := range recipes {
			fmt.Printf("%s  %s\n", r.ID, r.Title)
		}
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("expected a title")
		}
		f := form.New()
		f.SetTitle(args[1])
		if len(args) > 2 {
			f.SetBody(strings.Join(args[2:], " "))
		}
		env := form.Env{Store: a.store}
		if a.cfg.Session.Token != "" {
			env.Uploader = a.client
		} else {
			env.Local = a.local
		}
		recipe, err := f.Submit(ctx, env)
		if err != nil {
			return err
		}
		fmt.Println("created", recipe.ID)
		return nil
	case "show":
		if len(args) != 2 {
			return fmt.Errorf("expected an id")
		}
		recipe, err := a.store.GetRecipe(ctx, args[1])
		if err != nil {
			return err
		}
		if recipe == nil {
			return fmt.Errorf("recipe %s not found", args[1])
		}
		fmt.Println(recipe.Title)
		if recipe.BodyText != "" {
			fmt.Println()
			fmt.Println(recipe.BodyText)
		}
		if recipe.Memo != "" {
			fmt.Println("\nmemo:", recipe.Memo)
		}
		if len(recipe.Tags) > 0 {
			var names []string
			for _, tag := range recipe.Tags {
				names = append(names, "#"+tag.Name)
			}
			fmt.Println("\ntags:", strings.Join(names, " "))
		}
		return nil
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("expected an id")
		}
		return a.store.DeleteRecipe(ctx, args[1])
	default:
		return fmt.Errorf("unknown recipes subcommand %q", args[0])
	}
}

func (a *app) plan(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "next" {
		next := len(args) > 0 && args[0] == "next"
		grid, err := planner.Load(ctx, a.store, time.Now(), next)
		if err != nil {
			return err
		}
		fmt.Printf("week %s to %s\n", grid.Start, grid.End)
		for _, day := range grid.Days {
			for _, cell := range day.Cells {
				if cell.Entry == nil {
					continue
				}
				label := cell.Entry.CustomText
				if cell.Entry.Recipe != nil {
					label = cell.Entry.Recipe.Title
				}
				fmt.Printf("%s  %-9s  %s  (%s)\n", cell.Date, cell.MealType, label, cell.Entry.ID)
			}
		}
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) < 4 {
			return fmt.Errorf("expected <date> <meal> <text>")
		}
		plan, err := a.store.CreateMealPlan(ctx, args[1], args[2], nil, strings.Join(args[3:], " "))
		if err != nil {
			return err
		}
		fmt.Println("created", plan.ID)
		return nil
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("expected an id")
		}
		return a.store.DeleteMealPlan(ctx, args[1])
	default:
		return fmt.Errorf("unknown plan subcommand %q", args[0])
	}
}

func (a *app) shop(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		items, err := a.store.ListShoppingItems(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			mark := " "
			if item.IsCompleted {
				mark = "x"
			}
			fmt.Printf("[%s] %s  %s\n", mark, item.ID, item.Text)
		}
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("expected item text")
		}
		item, err := a.store.CreateShoppingItem(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Println("created", item.ID)
		return nil
	case "toggle":
		if len(args) != 2 {
			return fmt.Errorf("expected an id")
		}
		_, err := a.store.ToggleShoppingItem(ctx, args[1])
		return err
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("expected an id")
		}
		return a.store.DeleteShoppingItem(ctx, args[1])
	case "clear":
		return a.store.ClearShoppingItems(ctx)
	default:
		return fmt.Errorf("unknown shop subcommand %q", args[0])
	}
}
