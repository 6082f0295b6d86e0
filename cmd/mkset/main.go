package main

import (
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/g-m-twostay/multikey/Sets"
	"github.com/g-m-twostay/multikey/Sets/MultiSet"
	"github.com/g-m-twostay/multikey/Trees"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("mkset failed", "err", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	keyFlag := &cli.StringFlag{
		Name:    "key",
		Aliases: []string{"k"},
		Usage:   "key to order or match by: id, handle or email",
		Value:   "id",
	}
	return &cli.App{
		Name:  "mkset",
		Usage: "query and combine record files indexed by id, handle and email",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log collisions and other debug output",
			},
			&cli.StringFlag{
				Name:    "policy",
				Usage:   "which record survives a key collision: existing or incoming",
				Value:   Sets.PreferExisting.String(),
				EnvVars: []string{"MKSET_POLICY"},
			},
		},
		Before: func(cctx *cli.Context) error {
			level := slog.LevelInfo
			if cctx.Bool("verbose") {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cctx.App.ErrWriter, &slog.HandlerOptions{Level: level})))
			_, err := Sets.ParsePolicy(cctx.String("policy"))
			return err
		},
		Commands: []*cli.Command{
			{
				Name:      "load",
				Usage:     "load files into one set and print its size",
				ArgsUsage: "<file>...",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "validate", Usage: "check every index after loading"},
				},
				Action: runLoad,
			},
			{
				Name:      "list",
				Usage:     "print the records of a file ordered by a key",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					keyFlag,
					&cli.BoolFlag{Name: "desc", Usage: "largest first"},
				},
				Action: runList,
			},
			{
				Name:      "get",
				Usage:     "print the record with the given key value",
				ArgsUsage: "<file> <value>",
				Flags:     []cli.Flag{keyFlag},
				Action:    runGet,
			},
			{
				Name:      "union",
				Usage:     "records of both files, the first file winning collisions",
				ArgsUsage: "<a> <b>",
				Action:    runUnion,
			},
			{
				Name:      "intersect",
				Usage:     "records of the first file whose key value shows up in the second",
				ArgsUsage: "<a> <b>",
				Flags:     []cli.Flag{keyFlag},
				Action:    runIntersect,
			},
			{
				Name:      "except",
				Usage:     "records of the first file whose key value is missing from the second",
				ArgsUsage: "<a> <b>",
				Flags:     []cli.Flag{keyFlag},
				Action:    runExcept,
			},
			{
				Name:      "diff",
				Usage:     "compare two files by id",
				ArgsUsage: "<a> <b>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "also print unchanged records"},
				},
				Action: runDiff,
			},
			{
				Name:      "tree",
				Usage:     "draw the balanced tree behind a key",
				ArgsUsage: "<file>",
				Flags:     []cli.Flag{keyFlag},
				Action:    runTree,
			},
		},
	}
}

var errUsage = errors.New("wrong number of arguments")

// loadArgs loads the n positional file arguments of cctx.
func loadArgs(cctx *cli.Context, n int) (*schema, []MultiSet.Set[Record], error) {
	if cctx.NArg() != n {
		return nil, nil, errors.Wrapf(errUsage, "%s: want %d, got %d", cctx.Command.Name, n, cctx.NArg())
	}
	p, err := Sets.ParsePolicy(cctx.String("policy"))
	if err != nil {
		return nil, nil, err
	}
	sc := newSchema(slog.Default())
	sets := make([]MultiSet.Set[Record], n)
	for i := range sets {
		if sets[i], err = sc.load(cctx.Args().Get(i), p); err != nil {
			return nil, nil, err
		}
	}
	return sc, sets, nil
}

func runLoad(cctx *cli.Context) error {
	if cctx.NArg() == 0 {
		return errors.Wrap(errUsage, "load: want at least one file")
	}
	p, err := Sets.ParsePolicy(cctx.String("policy"))
	if err != nil {
		return err
	}
	sc := newSchema(slog.Default())
	all := MultiSet.Empty(sc.cfg)
	for _, path := range cctx.Args().Slice() {
		s, err := sc.load(path, p)
		if err != nil {
			return err
		}
		if p == Sets.PreferIncoming {
			all = MultiSet.Union(sc.cfg, s, all)
		} else {
			all = MultiSet.Union(sc.cfg, all, s)
		}
	}
	if cctx.Bool("validate") {
		if err := all.Validate(sc.cfg); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(cctx.App.Writer, all.Size())
	return err
}

func runList(cctx *cli.Context) error {
	sc, sets, err := loadArgs(cctx, 1)
	if err != nil {
		return err
	}
	d := Trees.Increasing
	if cctx.Bool("desc") {
		d = Trees.Decreasing
	}
	recs, err := sc.slice(sets[0], cctx.String("key"), d)
	if err != nil {
		return err
	}
	return writeRecords(cctx.App.Writer, recs)
}

func runGet(cctx *cli.Context) error {
	if cctx.NArg() != 2 {
		return errors.Wrapf(errUsage, "get: want 2, got %d", cctx.NArg())
	}
	p, err := Sets.ParsePolicy(cctx.String("policy"))
	if err != nil {
		return err
	}
	sc := newSchema(slog.Default())
	s, err := sc.load(cctx.Args().Get(0), p)
	if err != nil {
		return err
	}
	key, value := cctx.String("key"), cctx.Args().Get(1)
	r, ok, err := sc.get(s, key, value)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("no record with %s %q", key, value)
	}
	return writeRecords(cctx.App.Writer, []Record{r})
}

func runUnion(cctx *cli.Context) error {
	sc, sets, err := loadArgs(cctx, 2)
	if err != nil {
		return err
	}
	return writeRecords(cctx.App.Writer, MultiSet.Union(sc.cfg, sets[0], sets[1]).Slice(Trees.Increasing))
}

func runIntersect(cctx *cli.Context) error {
	sc, sets, err := loadArgs(cctx, 2)
	if err != nil {
		return err
	}
	s, err := sc.intersect(cctx.String("key"), sets[0], sets[1])
	if err != nil {
		return err
	}
	return writeRecords(cctx.App.Writer, s.Slice(Trees.Increasing))
}

func runExcept(cctx *cli.Context) error {
	sc, sets, err := loadArgs(cctx, 2)
	if err != nil {
		return err
	}
	s, err := sc.except(cctx.String("key"), sets[0], sets[1])
	if err != nil {
		return err
	}
	return writeRecords(cctx.App.Writer, s.Slice(Trees.Increasing))
}

func runDiff(cctx *cli.Context) error {
	sc, sets, err := loadArgs(cctx, 2)
	if err != nil {
		return err
	}
	lines := MultiSet.Fold2(sc.cfg, sets[0], sets[1], []string(nil), diffLine(cctx.Bool("all")))
	for _, l := range lines {
		if _, err := fmt.Fprintln(cctx.App.Writer, l); err != nil {
			return err
		}
	}
	return nil
}

func runTree(cctx *cli.Context) error {
	sc, sets, err := loadArgs(cctx, 1)
	if err != nil {
		return err
	}
	key := cctx.String("key")
	t, err := sc.tree(sets[0], key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cctx.App.Writer, renderTree(key, t).String())
	return err
}
