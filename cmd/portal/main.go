package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/zucitech/portal-client/internal/access"
	"github.com/zucitech/portal-client/internal/clients/backend"
	"github.com/zucitech/portal-client/internal/entity"
	"github.com/zucitech/portal-client/internal/guard"
	"github.com/zucitech/portal-client/internal/nav"
	"github.com/zucitech/portal-client/internal/notify"
	"github.com/zucitech/portal-client/internal/service"
	"github.com/zucitech/portal-client/internal/session"
	"github.com/zucitech/portal-client/internal/storage"
	"github.com/zucitech/portal-client/pkg/config"
	"github.com/zucitech/portal-client/pkg/logger"
)

// Requirements per protected route, mirroring the portal route table.
var routeRequirements = map[string]access.Requirement{
	"/dashboard": {},
	"/users":     {Permission: "user_view"},
	"/roles":     {AdminOnly: true},
	"/reports":   {Permission: "reports_view"},
}

func main() {
	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(l)

	store := storage.NewFileStore(cfg.StateDir)

	navigate := func(path string) {
		l.Info("navigate", "path", path)
	}

	sess := session.NewStore(store, navigate, cfg.LoginPath)
	client := backend.NewClient(cfg)
	svc := service.NewService(sess, client)
	eval := access.NewEvaluator(sess, cfg.SuperuserName)

	ctx := context.Background()
	sess.Restore(ctx)

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "login":
		requireArgs(args, 3, "login <username-or-email> <password>")

		if err := svc.Login(ctx, args[1], args[2]); err != nil {
			fail(service.UserMessage(err))
		}

		fmt.Println("logged in")
	case "signup":
		requireArgs(args, 6, "signup <username> <email> <password> <first-name> <last-name>")

		result, err := svc.Signup(ctx, service.SignupInput{
			Username:  args[1],
			Email:     args[2],
			Password:  args[3],
			FirstName: args[4],
			LastName:  args[5],
		})
		if err != nil {
			fail(service.UserMessage(err))
		}

		if result.SessionEstablished {
			fmt.Println("signed up and logged in")
		} else {
			fmt.Println("signed up, please log in")
		}
	case "logout":
		svc.Logout(ctx)
		fmt.Println("logged out")
	case "whoami":
		identity := sess.Identity()
		if identity == nil {
			fmt.Println("not logged in")
			return
		}

		fmt.Printf("%s %s (%s)\n", identity.FirstName, identity.LastName, identity.Username)
		fmt.Printf("roles: %s\n", roleNames(identity.Roles))
		fmt.Printf("permissions: %v\n", identity.Permissions)
		fmt.Printf("admin: %t\n", eval.IsAdmin())
	case "nav":
		for _, item := range nav.Filter(nav.DefaultItems(), eval) {
			fmt.Printf("%-20s %s\n", item.Label, item.Path)
		}
	case "open":
		requireArgs(args, 2, "open <path>")

		req, ok := routeRequirements[args[1]]
		if !ok {
			fail("unknown route: " + args[1])
		}

		g := guard.New(eval, sess, navigate, cfg.FallbackPath)
		fmt.Println(g.Resolve(req))
	case "reset-request":
		requireArgs(args, 2, "reset-request <email>")

		if err := svc.RequestPasswordReset(ctx, args[1]); err != nil {
			fail(service.UserMessage(err))
		}

		fmt.Println("check your email for the reset code")
	case "reset-complete":
		requireArgs(args, 4, "reset-complete <email> <otp> <new-password>")

		if err := svc.CompletePasswordReset(ctx, args[1], args[2], args[3]); err != nil {
			fail(service.UserMessage(err))
		}

		fmt.Println("password reset, please log in")
	case "notifications":
		center := notify.NewCenter(notify.DefaultSeed())

		fmt.Printf("unread: %d\n", center.Unread())

		for _, n := range center.List() {
			fmt.Printf("[%s] %s - %s\n", n.Type, n.Title, n.Message)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func roleNames(roles []entity.Role) string {
	out := ""

	for i, role := range roles {
		if i > 0 {
			out += ", "
		}

		out += role.Name
	}

	return out
}

func requireArgs(args []string, count int, form string) {
	if len(args) < count {
		fail("usage: portal " + form)
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: portal <command>

commands:
  login <username-or-email> <password>
  signup <username> <email> <password> <first-name> <last-name>
  logout
  whoami
  nav
  open <path>
  reset-request <email>
  reset-complete <email> <otp> <new-password>
  notifications`)
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
