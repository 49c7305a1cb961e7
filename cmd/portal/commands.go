package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	dashboardstats "labportal/internal/actions/admin/dashboard-stats"
	submitapplication "labportal/internal/actions/application/submit-application"
	authlogin "labportal/internal/actions/auth/auth-login"
	authlogout "labportal/internal/actions/auth/auth-logout"
	authregister "labportal/internal/actions/auth/auth-register"
	createpost "labportal/internal/actions/board/create-post"
	createform "labportal/internal/actions/forms/create-form"
	listactiveforms "labportal/internal/actions/forms/list-active-forms"
	loadform "labportal/internal/actions/forms/load-form"
	"labportal/internal/common/errors"
	"labportal/internal/forms"
	"labportal/internal/models"
	"labportal/pkg/formfile"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "forms":
		return a.subcommand(ctx, "forms", rest, map[string]func(context.Context, []string) error{
			"list":   a.formsList,
			"show":   a.formsShow,
			"create": a.formsCreate,
		})
	case "apply":
		return a.apply(ctx, rest)
	case "applications":
		return a.applications(ctx, rest)
	case "dashboard":
		return a.dashboard(ctx, rest)
	case "post":
		return a.post(ctx, rest)
	case "posts":
		return a.subcommand(ctx, "posts", rest, map[string]func(context.Context, []string) error{
			"list":   a.postsList,
			"delete": a.postsDelete,
		})
	}
	help()
	return errors.NewInvalidArgumentError(fmt.Sprintf("unknown command %q", cmd))
}

func (a *app) subcommand(ctx context.Context, group string, args []string, cmds map[string]func(context.Context, []string) error) error {
	if len(args) > 0 {
		if fn, ok := cmds[args[0]]; ok {
			return fn(ctx, args[1:])
		}
	}
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return errors.NewInvalidArgumentError(fmt.Sprintf("usage: portal %s <%s>", group, strings.Join(names, "|")))
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

// --- auth ---

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Password (default: $PORTAL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("PORTAL_PASSWORD")
	}

	cfg := authlogin.DefaultConfig()
	cfg.Enabled, cfg.Timeout = a.action(authlogin.ActionName)
	if err := cfg.Validate(); err != nil {
		return errors.NewConfigError(err.Error())
	}
	svc := authlogin.NewService(authlogin.ServiceDependencies{
		Auth:     a.client,
		Sessions: a.sessions,
		Logger:   a.log,
	}, cfg)

	out, err := svc.Execute(ctx, &authlogin.Input{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", out.User.Email, out.User.Role)
	if !out.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Session expires %s\n", out.ExpiresAt.Local().Format(time.RFC1123))
	}
	if a.cfg.Session.Backend == "memory" {
		fmt.Fprintln(a.out, "Note: session.backend is memory; the session ends with this process.")
	}
	return nil
}

func (a *app) logout(ctx context.Context, args []string) error {
	fs := newFlagSet("logout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := authlogout.DefaultConfig()
	cfg.Enabled, cfg.Timeout = a.action(authlogout.ActionName)
	svc := authlogout.NewService(authlogout.ServiceDependencies{
		Sessions: a.sessions,
		Logger:   a.log,
	}, cfg)

	out, err := svc.Execute(ctx, &authlogout.Input{Reason: "cli"})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, out.Message)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	in := &authregister.Input{}
	fs.StringVar(&in.Email, "email", "", "Account email")
	fs.StringVar(&in.Password, "password", "", "Password")
	fs.StringVar(&in.PasswordConfirm, "confirm", "", "Password again")
	fs.StringVar(&in.Name, "name", "", "Full name")
	fs.StringVar(&in.Phone, "phone", "", "Phone number (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := authregister.DefaultConfig()
	cfg.Enabled, cfg.Timeout = a.action(authregister.ActionName)
	svc := authregister.NewService(authregister.ServiceDependencies{
		Registrar: a.client,
		Logger:    a.log,
	}, cfg)

	out, err := svc.Execute(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s (id %d)\n", out.User.Email, out.User.ID)
	return nil
}

// --- forms ---

func (a *app) formsList(ctx context.Context, args []string) error {
	fs := newFlagSet("forms list")
	refresh := fs.Bool("refresh", false, "Bypass the cached listing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := listactiveforms.DefaultConfig()
	cfg.Enabled, cfg.Timeout = a.action(listactiveforms.ActionName)
	out, err := listactiveforms.NewHandler(cfg, a.client, a.log).Execute(ctx, &listactiveforms.Input{Refresh: *refresh})
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tWINDOW\tQUESTIONS")
	for _, f := range out.Forms {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", f.ID, f.Status, f.Title, window(f.StartDate, f.EndDate), f.QuestionCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d form(s), %d open now\n", len(out.Forms), out.Open)
	return nil
}

func window(start, end *models.Timestamp) string {
	day := func(t *models.Timestamp) string {
		if t == nil {
			return "-"
		}
		return t.Time.Format("2006-01-02")
	}
	return day(start) + " ~ " + day(end)
}

func (a *app) loadForm(ctx context.Context, id int64) (*loadform.Output, error) {
	cfg := loadform.DefaultConfig()
	cfg.Enabled, cfg.Timeout = a.action(loadform.ActionName)
	return loadform.NewHandler(cfg, a.client, a.log).Execute(ctx, &loadform.Input{FormID: id})
}

func (a *app) formsShow(ctx context.Context, args []string) error {
	fs := newFlagSet("forms show")
	id := fs.Int64("id", 0, "Form id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	out, err := a.loadForm(ctx, *id)
	if err != nil {
		return err
	}
	return a.printJSON(out.Form)
}

func (a *app) formsCreate(ctx context.Context, args []string) error {
	fs := newFlagSet("forms create")
	file := fs.String("file", "", "Form definition (.yaml, .yml or .json)")
	dryRun := fs.Bool("dry-run", false, "Validate and print the payload without sending it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.NewInvalidArgumentError("-file is required")
	}

	draft, err := formfile.LoadDefinition(*file)
	if err != nil {
		return err
	}

	if *dryRun {
		if err := forms.Validate(draft).Err(); err != nil {
			return err
		}
		return a.printJSON(forms.Serialize(draft))
	}

	cfg := createform.DefaultConfig()
	cfg.Enabled, cfg.Timeout = a.action(createform.ActionName)
	out, err := createform.NewHandler(cfg, a.client, a.log).Execute(ctx, &createform.Input{Draft: draft})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created form %d %q (%s)\n", out.FormID, out.Title, out.Status)
	return nil
}

// --- applications ---

func (a *app) apply(ctx context.Context, args []string) error {
	fs := newFlagSet("apply")
	formID := fs.Int64("form", 0, "Form id")
	file := fs.String("answers", "", "Answers file (.yaml, .yml or .json)")
	name := fs.String("name", "", "Applicant name (overrides the file)")
	email := fs.String("email", "", "Applicant email (overrides the file)")
	phone := fs.String("phone", "", "Applicant phone (overrides the file)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.NewInvalidArgumentError("-answers is required")
	}

	loaded, err := a.loadForm(ctx, *formID)
	if err != nil {
		return err
	}

	applicant, values, err := formfile.LoadAnswers(*file, *loaded.Form)
	if err != nil {
		return err
	}
	override(&applicant.Name, *name)
	override(&applicant.Email, *email)
	override(&applicant.Phone, *phone)

	cfg := submitapplication.DefaultConfig()
	cfg.Enabled, cfg.Timeout = a.action(submitapplication.ActionName)
	out, err := submitapplication.NewHandler(cfg, a.client, a.journal, a.log).Execute(ctx, &submitapplication.Input{
		Form:      *loaded.Form,
		Applicant: applicant,
		Answers:   values,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Application %d submitted to %q (%s)\n", out.ApplicationID, loaded.Form.Title, out.Status)
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (a *app) applications(ctx context.Context, args []string) error {
	fs := newFlagSet("applications")
	formID := fs.Int64("form", 0, "Only applications for this form")
	if err := fs.Parse(args); err != nil {
		return err
	}

	apps, err := a.client.ListApplications(ctx, *formID)
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tFORM\tAPPLICANT\tEMAIL\tSTATUS\tSUBMITTED")
	for _, rec := range apps {
		submitted := "-"
		if rec.SubmittedAt != nil {
			submitted = rec.SubmittedAt.Time.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.ApplicationFormID, rec.ApplicantName, rec.ApplicantEmail, rec.Status, submitted)
	}
	return tw.Flush()
}

// --- admin ---

func (a *app) dashboard(ctx context.Context, args []string) error {
	fs := newFlagSet("dashboard")
	watch := fs.Duration("watch", 0, "Reload at this interval until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := dashboardstats.DefaultConfig()
	cfg.Enabled, cfg.Timeout = a.action(dashboardstats.ActionName)
	cfg.FallbackEnabled = a.cfg.Dashboard.FallbackEnabled
	h := dashboardstats.NewHandler(cfg, a.client, a.log)

	show := func() error {
		out, err := h.Execute(ctx, nil)
		if err != nil {
			return err
		}
		a.printStats(a.out, out)
		return nil
	}

	if *watch <= 0 {
		return show()
	}

	ticker := time.NewTicker(*watch)
	defer ticker.Stop()
	for {
		if err := show(); err != nil {
			if errors.HasCode(err, errors.ErrCodeUnauthorized) {
				return err
			}
			report(err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *app) printStats(w io.Writer, out *dashboardstats.Output) {
	s := out.Stats
	if out.Source == dashboardstats.SourceFallback {
		fmt.Fprintln(w, "Backend unreachable; showing sample figures.")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Users\t%d\n", s.TotalUsers)
	fmt.Fprintf(tw, "Posts\t%d\n", s.TotalPosts)
	fmt.Fprintf(tw, "Forms\t%d (%d active)\n", s.TotalForms, s.ActiveForms)
	fmt.Fprintf(tw, "Applications\t%d (%d pending)\n", s.TotalApplications, s.PendingApplications)
	tw.Flush()

	if len(s.RecentApplications) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecent applications:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range s.RecentApplications {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", r.ID, r.FormTitle, r.ApplicantName, r.Status)
	}
	tw.Flush()
}

// --- board ---

func (a *app) post(ctx context.Context, args []string) error {
	fs := newFlagSet("post")
	var images stringList
	title := fs.String("title", "", "Post title")
	content := fs.String("content", "", "Post body")
	fs.Var(&images, "image", "Image file to attach (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := createpost.DefaultConfig()
	cfg.Enabled, cfg.Timeout = a.action(createpost.ActionName)
	out, err := createpost.NewHandler(cfg, a.client, a.log).Execute(ctx, &createpost.Input{
		Title:      *title,
		Content:    *content,
		ImagePaths: images,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created post %d %q\n", out.Post.ID, out.Post.Title)
	return nil
}

func (a *app) postsList(ctx context.Context, args []string) error {
	if err := newFlagSet("posts list").Parse(args); err != nil {
		return err
	}
	posts, err := a.client.ListPosts(ctx)
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tVIEWS\tIMAGES")
	for _, p := range posts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", p.ID, p.Title, p.AuthorName, p.ViewCount, len(p.ImageURLs))
	}
	return tw.Flush()
}

func (a *app) postsDelete(ctx context.Context, args []string) error {
	fs := newFlagSet("posts delete")
	id := fs.Int64("id", 0, "Post id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.NewInvalidArgumentError("-id must be positive")
	}
	if err := a.client.DeletePost(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted post %d\n", *id)
	return nil
}
