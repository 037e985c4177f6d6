// Package cli implements zbook's command-line subcommands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"golang.org/x/term"

	"github.com/zarlcorp/zbook/internal/book"
	"github.com/zarlcorp/zbook/internal/config"
	"github.com/zarlcorp/zbook/internal/field"
	"github.com/zarlcorp/zbook/internal/store"
)

// DataDir returns the default data directory for zbook.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d + "/zbook"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zbook"
	}
	return home + "/.local/share/zbook"
}

// ReadPassword prompts for a password on stderr and reads it without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ReadNewPassword prompts for a new password with confirmation.
func ReadNewPassword(w io.Writer) (string, error) {
	pass, err := ReadPassword("master password: ", w)
	if err != nil {
		return "", err
	}
	confirm, err := ReadPassword("confirm password: ", w)
	if err != nil {
		return "", err
	}
	if pass != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return pass, nil
}

// IsFirstRun checks whether the store has been initialized.
func IsFirstRun(dir string) bool {
	_, err := os.Stat(dir + "/salt")
	return err != nil
}

// OpenStore prompts for a password and opens the store along with the
// per-install settings.
func OpenStore(dir string) (*store.Store, config.Settings, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, config.Settings{}, fmt.Errorf("create data dir: %w", err)
	}

	var pass string
	var err error
	if IsFirstRun(dir) {
		pass, err = ReadNewPassword(os.Stderr)
	} else {
		pass, err = ReadPassword("master password: ", os.Stderr)
	}
	if err != nil {
		return nil, config.Settings{}, err
	}

	fsys := zfilesystem.NewOSFileSystem(dir)
	s, err := store.Open(fsys, pass)
	if err != nil {
		return nil, config.Settings{}, err
	}

	cfg, err := config.Load(fsys)
	if err != nil {
		s.Close()
		return nil, config.Settings{}, err
	}

	return s, cfg, nil
}

// CmdAdd adds a contact, or adds phones to an existing one.
// Usage: zbook add <name> [<phone>...] [--birthday YYYY-MM-DD]
func CmdAdd(args []string) {
	birthday := flagValue(args, "--birthday")
	pos := positional(args)
	if len(pos) < 1 {
		fmt.Fprintln(os.Stderr, "usage: zbook add <name> [<phone>...] [--birthday YYYY-MM-DD]")
		os.Exit(1)
	}
	name, phones := pos[0], pos[1:]

	s, cfg, err := OpenStore(DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	err = s.WithSession(cfg.EffectiveBookFile(), func(b *book.AddressBook) error {
		r, ok := b.Find(name)
		if !ok {
			r, err = book.NewRecord(name, birthday)
			if err != nil {
				return err
			}
			b.Add(r)
		} else if birthday != "" {
			if err := r.SetBirthday(birthday); err != nil {
				return err
			}
		}

		for _, p := range phones {
			if err := r.AddPhone(p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: add: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("saved %s\n", name)
}

// CmdList prints all contacts page by page.
// Usage: zbook list [--page-size N]
func CmdList(args []string) {
	s, cfg, err := OpenStore(DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	size := cfg.EffectivePageSize()
	if v := flagValue(args, "--page-size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "zbook: list: invalid page size %q\n", v)
			os.Exit(1)
		}
	}

	b, err := s.Load(cfg.EffectiveBookFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: list: %v\n", err)
		os.Exit(1)
	}

	if b.Len() == 0 {
		fmt.Println("address book is empty")
		return
	}

	pages, err := b.Pages(size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: list: %v\n", err)
		os.Exit(1)
	}

	page := 1
	for records := range pages {
		if page > 1 {
			fmt.Println()
		}
		fmt.Printf("-- page %d --\n", page)
		for _, r := range records {
			fmt.Println(r)
		}
		page++
	}
}

// CmdSearch prints contacts whose name or phone contains the query.
func CmdSearch(query string) {
	s, cfg, err := OpenStore(DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	b, err := s.Load(cfg.EffectiveBookFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: search: %v\n", err)
		os.Exit(1)
	}

	results := b.Search(query)
	if len(results) == 0 {
		fmt.Println("no matches")
		return
	}
	for _, r := range results {
		fmt.Println(r)
	}
}

// CmdBirthday prints the days until a contact's next birthday.
func CmdBirthday(name string) {
	s, cfg, err := OpenStore(DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	b, err := s.Load(cfg.EffectiveBookFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: birthday: %v\n", err)
		os.Exit(1)
	}

	r, ok := b.Find(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "zbook: birthday: %v\n", book.ErrRecordNotFound)
		os.Exit(1)
	}

	days, err := r.DaysToBirthday(time.Now())
	if err != nil {
		if errors.Is(err, field.ErrBirthdayUnset) {
			fmt.Printf("%s: birthday unknown\n", name)
			return
		}
		fmt.Fprintf(os.Stderr, "zbook: birthday: %v\n", err)
		os.Exit(1)
	}

	switch days {
	case 0:
		fmt.Printf("%s's birthday is today\n", name)
	case 1:
		fmt.Printf("1 day until %s's birthday\n", name)
	default:
		fmt.Printf("%d days until %s's birthday\n", days, name)
	}
}

// CmdForget deletes a contact by name.
func CmdForget(name string) {
	s, cfg, err := OpenStore(DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	err = s.WithSession(cfg.EffectiveBookFile(), func(b *book.AddressBook) error {
		if _, ok := b.Find(name); !ok {
			return book.ErrRecordNotFound
		}
		b.Delete(name)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "zbook: forget: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("deleted %s\n", name)
}

// valueFlags take an argument; positional skips the value along with the
// flag.
var valueFlags = map[string]bool{
	"--birthday":  true,
	"--page-size": true,
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if strings.EqualFold(a, flag) && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func positional(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "--") {
			if valueFlags[strings.ToLower(args[i])] {
				i++
			}
			continue
		}
		out = append(out, args[i])
	}
	return out
}
