package main

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/splash"
	"github.com/bodgit/splash/bitmap"
	"github.com/bodgit/splash/catalog"
	"github.com/bodgit/splash/picture"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(os.Stderr, "", 0)
	if c.Bool("quiet") {
		logger.SetOutput(ioutil.Discard)
	}
	return logger
}

func newSplash(c *cli.Context) *splash.Splash {
	resume := splash.ResumeAfterPayload
	if c.Bool("compat") {
		resume = splash.ResumeAfterHeader
	}
	return splash.New(newLogger(c), splash.WithResume(resume), splash.WithKeepRaw(c.Bool("keep-raw")))
}

func basename(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func extract(c *cli.Context, file string) error {
	format, err := picture.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	var cat *catalog.Catalog
	if db := c.String("db"); db != "" {
		if cat, err = catalog.New(db); err != nil {
			return err
		}
		defer cat.Close()
	}

	path, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	s := newSplash(c)
	logger := newLogger(c)

	_, err = s.Extract(f, func(b *splash.Block, m *bitmap.Bitmap) error {
		if cat != nil {
			if err := cat.Add(catalog.Entry{
				Path:     path,
				Index:    b.Index,
				Position: b.Position,
				Width:    b.Header.Width,
				Height:   b.Header.Height,
				Mode:     b.Header.Mode,
				Pages:    b.Header.Pages,
				CRC:      splash.CRC(m),
			}); err != nil {
				return err
			}
		}

		if err := picture.Save(fmt.Sprintf("%s_%d%s", basename(file), b.Index, format.Ext()), m, format); err != nil {
			return err
		}
		logger.Println("Image saved")

		return nil
	})

	return err
}

func copyFile(dst *os.File, file string) error {
	src, err := os.Open(file)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(dst, src)
	return err
}

// modifiedName returns the name of the patched copy of file, placed in dir
func modifiedName(dir, file string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_MOD%d%s", basename(file), i, filepath.Ext(file)))
}

// substituteFile writes a copy of file to out with block i replaced by the
// picture in sub. Nothing is created if file or sub can't be read, and out is
// removed again if the substitution fails.
func substituteFile(s *splash.Splash, file, sub string, i int, out string) error {
	// Fail before creating anything if the container is missing
	if _, err := os.Stat(file); err != nil {
		return err
	}

	m, err := picture.Load(sub)
	if err != nil {
		return fmt.Errorf("invalid substitute picture: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}

	err = copyFile(f, file)
	if err == nil {
		err = s.Substitute(f, m, i)
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(out)
		return err
	}

	return nil
}

func substitute(c *cli.Context, file, sub, index string) error {
	i, err := strconv.Atoi(index)
	if err != nil {
		return fmt.Errorf("invalid substitute index: %w", err)
	}

	return substituteFile(newSplash(c), file, sub, i, modifiedName("", file, i))
}

func index(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	if c.String("db") == "" {
		return errors.New("no database given")
	}

	cat, err := catalog.New(c.String("db"))
	if err != nil {
		return err
	}
	defer cat.Close()

	return newSplash(c).Index(c.Args().First(), cat)
}

func lookup(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	if c.String("db") == "" {
		return errors.New("no database given")
	}

	cat, err := catalog.New(c.String("db"))
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.FindByCRC(strings.ToUpper(c.Args().First()))
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%s\t%d\t%#x\t%dx%d\t%s\n", e.Path, e.Index, e.Position, e.Width, e.Height, e.Mode)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "splash"
	app.Usage = "Firmware splash image extraction and substitution utility"
	app.Version = "1.0.0"
	app.ArgsUsage = "SPLASH [PICTURE INDEX]"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SPLASH_DB"},
			Usage:   "path to block catalog database",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   string(picture.BMP),
			Usage:   "extracted picture format (bmp, png, gif, jpeg)",
		},
		&cli.BoolFlag{
			Name:  "compat",
			Usage: "resume scanning after each header page instead of after the payload",
		},
		&cli.BoolFlag{
			Name:  "keep-raw",
			Usage: "never compress a block that is currently uncompressed",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "suppress diagnostics",
		},
	}

	app.Action = func(c *cli.Context) error {
		var err error
		switch c.NArg() {
		case 1:
			err = extract(c, c.Args().First())
		case 3:
			err = substitute(c, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
		default:
			cli.ShowAppHelpAndExit(c, 1)
		}
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		return nil
	}

	app.Commands = []*cli.Command{
		{
			Name:        "index",
			Usage:       "Catalog the splash blocks of every file in a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if err := index(c); err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
		{
			Name:        "lookup",
			Usage:       "List catalogued blocks with a given picture CRC",
			Description: "",
			ArgsUsage:   "CRC",
			Action: func(c *cli.Context) error {
				if err := lookup(c); err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
