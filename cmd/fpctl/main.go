// Package main provides fpctl, a terminal client for the financial products API
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"financialproducts/internal/catalog"
	"financialproducts/internal/client"
	"financialproducts/internal/config"
	"financialproducts/internal/models"
	"financialproducts/internal/validation"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const usage = `usage: fpctl [-api URL] [-timeout d] [-v] <command> [args]

-api and -timeout default to FP_API_URL and CLIENT_TIMEOUT.

commands:
  list   [-search term] [-size n]
  get    <id>
  create -id ID -name NAME -description TEXT -logo URL -release YYYY-MM-DD [-revision YYYY-MM-DD]
  update <id> [-name NAME] [-description TEXT] [-logo URL] [-release YYYY-MM-DD] [-revision YYYY-MM-DD]
  delete <id>
  verify <id>
`

func main() {
	// Optional; flags and the environment are enough
	_ = godotenv.Load()

	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// app holds the collaborators shared by every command
type app struct {
	client *client.ProductClient
	log    *zap.Logger
	now    func() time.Time
	out    io.Writer
	errOut io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fpctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	defaults := config.LoadClientFromEnv()
	api := fs.String("api", defaults.BaseURL, "products API base URL")
	timeout := fs.Duration("timeout", defaults.Timeout, "request timeout")
	verbose := fs.Bool("v", false, "log requests to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log := zap.NewNop()
	if *verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			log = l
			defer func() { _ = log.Sync() }()
		}
	}

	a := &app{
		client: client.NewProductClient(*api, log, client.WithTimeout(*timeout)),
		log:    log,
		now:    time.Now,
		out:    stdout,
		errOut: stderr,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	var err error
	switch cmd {
	case "list":
		err = a.list(ctx, rest)
	case "get":
		err = a.get(ctx, rest)
	case "create":
		err = a.create(ctx, rest)
	case "update":
		err = a.update(ctx, rest)
	case "delete":
		err = a.delete(ctx, rest)
	case "verify":
		err = a.verify(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return 2
	}

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(stderr, "error:", err)
		}
		return 1
	}
	return 0
}

// errReported marks failures whose details were already printed
var errReported = errors.New("reported")

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	search := fs.String("search", "", "filter by name or description")
	size := fs.Int("size", catalog.DefaultPageSize, "number of rows, 0 for all")
	if err := fs.Parse(args); err != nil {
		return errReported
	}

	view := catalog.NewListView(a.client)
	if err := view.Load(ctx); err != nil {
		fmt.Fprintln(a.errOut, view.Error())
		return errReported
	}
	view.SetPageSize(*size)
	view.Search(*search)

	if view.Empty() {
		fmt.Fprintln(a.out, "no results")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tLOGO\tRELEASE\tREVISION")
	for _, p := range view.Displayed() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Description, p.Logo,
			catalog.FormatDate(p.DateRelease), catalog.FormatDate(p.DateRevision))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d results\n", view.ResultCount())
	return nil
}

func (a *app) get(ctx context.Context, args []string) error {
	id, err := singleID("get", args)
	if err != nil {
		return err
	}

	form := catalog.NewProductForm(a.client, a.now, a.log)
	p, err := form.LoadForEdit(ctx, id)
	if err != nil {
		return err
	}
	printProduct(a.out, p)
	return nil
}

// productFlags binds the editable fields of p to fs
func productFlags(fs *flag.FlagSet, p *models.FinancialProduct) {
	fs.StringVar(&p.Name, "name", p.Name, "product name")
	fs.StringVar(&p.Description, "description", p.Description, "product description")
	fs.StringVar(&p.Logo, "logo", p.Logo, "logo URL")
	fs.StringVar(&p.DateRelease, "release", p.DateRelease, "release date (YYYY-MM-DD)")
	fs.StringVar(&p.DateRevision, "revision", p.DateRevision, "revision date (YYYY-MM-DD)")
}

func (a *app) create(ctx context.Context, args []string) error {
	var p models.FinancialProduct
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.StringVar(&p.ID, "id", "", "product identifier")
	productFlags(fs, &p)
	if err := fs.Parse(args); err != nil {
		return errReported
	}

	if p.DateRevision == "" {
		p.DateRevision = defaultRevision(p.DateRelease)
	}

	form := catalog.NewProductForm(a.client, a.now, a.log)
	sub, err := form.SubmitCreate(ctx, p)
	return a.report(sub, err)
}

func (a *app) update(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("update requires a product id")
	}
	id := args[0]

	form := catalog.NewProductForm(a.client, a.now, a.log)
	p, err := form.LoadForEdit(ctx, id)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	productFlags(fs, &p)
	if err := fs.Parse(args[1:]); err != nil {
		return errReported
	}

	sub, err := form.SubmitUpdate(ctx, id, p)
	return a.report(sub, err)
}

func (a *app) delete(ctx context.Context, args []string) error {
	id, err := singleID("delete", args)
	if err != nil {
		return err
	}

	view := catalog.NewListView(a.client)
	if err := view.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.errOut, view.Error())
		return errReported
	}
	fmt.Fprintf(a.out, "product %s deleted\n", id)
	return nil
}

func (a *app) verify(ctx context.Context, args []string) error {
	id, err := singleID("verify", args)
	if err != nil {
		return err
	}

	exists, err := a.client.VerifyID(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintf(a.out, "%s is taken\n", id)
	} else {
		fmt.Fprintf(a.out, "%s is available\n", id)
	}
	return nil
}

// report prints the outcome of a form submission
func (a *app) report(sub catalog.Submission, err error) error {
	switch {
	case errors.Is(err, catalog.ErrInvalidForm):
		for _, field := range sub.FieldErrors.Fields() {
			fmt.Fprintf(a.errOut, "%s: %s\n", field, sub.FieldErrors.Messages()[field])
		}
		return errReported
	case err != nil:
		var formErr *catalog.FormError
		if errors.As(err, &formErr) {
			fmt.Fprintln(a.errOut, formErr.Message)
			return errReported
		}
		return err
	}

	fmt.Fprintln(a.out, sub.Message)
	printProduct(a.out, sub.Product)
	return nil
}

func singleID(cmd string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s requires exactly one product id", cmd)
	}
	return args[0], nil
}

// defaultRevision is one year after release, or empty when release is unreadable
func defaultRevision(release string) string {
	t, err := validation.ParseDate(catalog.FormatDate(release))
	if err != nil {
		return ""
	}
	return validation.ExpectedRevision(t).Format(validation.DateLayout)
}

func printProduct(w io.Writer, p models.FinancialProduct) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", p.ID)
	fmt.Fprintf(tw, "name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "description:\t%s\n", p.Description)
	fmt.Fprintf(tw, "logo:\t%s\n", p.Logo)
	fmt.Fprintf(tw, "release:\t%s\n", catalog.FormatDate(p.DateRelease))
	fmt.Fprintf(tw, "revision:\t%s\n", catalog.FormatDate(p.DateRevision))
	_ = tw.Flush()
}
