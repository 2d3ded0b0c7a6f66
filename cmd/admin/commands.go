package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/libyanfood/site/internal/admin/apiclient"
	"github.com/libyanfood/site/internal/admin/contentstore"
	"github.com/libyanfood/site/internal/admin/editor"
	"github.com/libyanfood/site/internal/admin/manager"
	"github.com/libyanfood/site/internal/admin/schema"
	"github.com/libyanfood/site/internal/models"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func loginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s\n", a.gate.User().Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.gate.Logout()
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate.Require(); err != nil {
				return err
			}
			u, err := a.api.Me(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(u)
		},
	}
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters and the latest messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate.Require(); err != nil {
				return err
			}

			messages := manager.Messages(a.api, a.log)
			defer messages.Close()

			var stats *apiclient.Stats
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				stats, err = a.api.Stats(ctx)
				return err
			})
			g.Go(func() error {
				return messages.Load(ctx)
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if err := printJSON(stats); err != nil {
				return err
			}
			items := messages.Items()
			if len(items) > 5 {
				items = items[:5]
			}
			for _, m := range items {
				mark := " "
				if !m.IsRead {
					mark = "*"
				}
				fmt.Printf("%s %4d  %s <%s>\n", mark, m.ID, m.Name, m.Email)
			}
			return nil
		},
	}
}

func contentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Show or edit the site text",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [section]",
		Short: "Show every section, or one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := editor.New(contentstore.New(a.api), editor.Options{Logger: a.log})
			defer ed.Close()
			loadErr := ed.Load(cmd.Context())

			for _, s := range schema.Sections {
				if len(args) == 1 && args[0] != s.Key {
					continue
				}
				fmt.Printf("[%s] %s\n", s.Key, s.Title)
				if err := ed.LoadError(s.Key); err != nil {
					fmt.Printf("  (failed to load: %v)\n", err)
					continue
				}
				inputs, err := ed.Form(s.Key)
				if err != nil {
					return err
				}
				for _, in := range inputs {
					fmt.Printf("  %-18s %s: %s\n", in.Field.Key, in.Field.Label, in.Value)
				}
			}
			return loadErr
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <section> <key> <value>",
		Short: "Save one field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate.Require(); err != nil {
				return err
			}
			ed := editor.New(contentstore.New(a.api), editor.Options{Logger: a.log})
			defer ed.Close()

			if err := ed.Edit(args[0], args[1], args[2]); err != nil {
				return err
			}
			err := ed.Save(cmd.Context(), args[0], args[1])
			if n, ok := ed.Notice(); ok {
				fmt.Println(n.Text)
			}
			return err
		},
	})

	return cmd
}

// screen is one list manager with its element type erased.
type screen struct {
	list   func(ctx context.Context) (any, error)
	save   func(ctx context.Context, req saveRequest) error
	delete func(ctx context.Context, id uint, confirm manager.ConfirmFunc) error
	close  func()
}

// saveRequest describes one create (ID 0) or edit through the modal.
type saveRequest struct {
	ID         uint
	Fields     []string
	Image      string
	ClearImage bool
}

func bind[T models.Resource](m *manager.Manager[T]) screen {
	return screen{
		list: func(ctx context.Context) (any, error) {
			if err := load(ctx, m); err != nil {
				return nil, err
			}
			return m.Items(), nil
		},
		save: func(ctx context.Context, req saveRequest) error {
			return save(ctx, m, req)
		},
		delete: m.Delete,
		close:  m.Close,
	}
}

// load fetches the list, retrying once.
func load[T models.Resource](ctx context.Context, m *manager.Manager[T]) error {
	if err := m.Load(ctx); err == nil {
		return nil
	}
	return m.Retry(ctx)
}

func save[T models.Resource](ctx context.Context, m *manager.Manager[T], req saveRequest) error {
	if err := load(ctx, m); err != nil {
		return err
	}

	if req.ID == 0 {
		if err := m.OpenModal(nil); err != nil {
			return err
		}
	} else {
		item, ok := find(m.Items(), req.ID)
		if !ok {
			return fmt.Errorf("record %d: %w", req.ID, apiclient.ErrNotFound)
		}
		if err := m.OpenModal(&item); err != nil {
			return err
		}
	}
	defer m.CloseModal()

	for _, kv := range req.Fields {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		if err := m.SetField(strings.TrimSpace(key), value); err != nil {
			return describe(err)
		}
	}

	if req.ClearImage {
		if err := m.ClearImage(); err != nil {
			return err
		}
	}
	if req.Image != "" {
		f, err := os.Open(req.Image)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := m.UploadImage(ctx, filepath.Base(req.Image), f); err != nil {
			return err
		}
	}

	if err := m.Submit(ctx); err != nil {
		if md, open := m.Modal(); open && md.Err != nil {
			return describe(md.Err)
		}
		return describe(err)
	}
	return nil
}

func find[T models.Resource](items []T, id uint) (T, bool) {
	for _, item := range items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// describe lists the offending fields of a validation failure.
func describe(err error) error {
	var fields map[string]string
	var verr *apiclient.ValidationError
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &verr):
		fields = verr.Fields
	case errors.As(err, &apiErr):
		fields = apiErr.FieldErrors()
	}
	if len(fields) == 0 {
		return err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %s", k, fields[k])
	}
	return fmt.Errorf("%w%s", err, b.String())
}

func (a *app) screen(name string) (screen, error) {
	switch name {
	case "services":
		return bind(manager.Services(a.api, a.log)), nil
	case "projects":
		return bind(manager.Projects(a.api, a.log)), nil
	case "testimonials":
		return bind(manager.Testimonials(a.api, a.log)), nil
	case "news":
		return bind(manager.News(a.api, a.log)), nil
	case "messages":
		return bind(manager.Messages(a.api, a.log)), nil
	}
	return screen{}, fmt.Errorf("unknown resource %q (services, projects, testimonials, news, messages)", name)
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <resource>",
		Short: "List services, projects, testimonials, news or messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "messages" {
				if err := a.gate.Require(); err != nil {
					return err
				}
			}
			s, err := a.screen(args[0])
			if err != nil {
				return err
			}
			defer s.close()

			items, err := s.list(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(items)
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete one record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate.Require(); err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			s, err := a.screen(args[0])
			if err != nil {
				return err
			}
			defer s.close()

			confirmed := false
			confirm := func(prompt string) bool {
				confirmed = yes || ask(prompt)
				return confirmed
			}
			if err := s.delete(cmd.Context(), id, confirm); err != nil {
				return err
			}
			if confirmed {
				fmt.Println("Deleted")
			} else {
				fmt.Println("Cancelled")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func readCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <message-id>",
		Short: "Show a contact message and mark it read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate.Require(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			m := manager.Messages(a.api, a.log)
			defer m.Close()
			if err := load(cmd.Context(), m); err != nil {
				return err
			}

			for _, msg := range m.Items() {
				if msg.ID != id {
					continue
				}
				if err := m.Select(cmd.Context(), msg); err != nil {
					return err
				}
				selected, _ := m.Selected()
				return printJSON(selected)
			}
			return fmt.Errorf("message %d: %w", id, apiclient.ErrNotFound)
		},
	}
}

func saveFlags(cmd *cobra.Command, req *saveRequest) {
	cmd.Flags().StringArrayVarP(&req.Fields, "set", "s", nil, "field value as key=value (repeatable)")
	cmd.Flags().StringVar(&req.Image, "image", "", "image file to upload into the record")
	cmd.Flags().BoolVar(&req.ClearImage, "clear-image", false, "remove the current image first")
}

func editable(a *app, name string) (screen, error) {
	if name == "messages" {
		return screen{}, errors.New("messages are read-only")
	}
	return a.screen(name)
}

func createCmd(a *app) *cobra.Command {
	var req saveRequest
	cmd := &cobra.Command{
		Use:   "create <resource>",
		Short: "Create a service, project, testimonial or news item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate.Require(); err != nil {
				return err
			}
			s, err := editable(a, args[0])
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.save(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Println("Saved")
			return nil
		},
	}
	saveFlags(cmd, &req)
	return cmd
}

func editCmd(a *app) *cobra.Command {
	var req saveRequest
	cmd := &cobra.Command{
		Use:   "edit <resource> <id>",
		Short: "Change fields of an existing record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate.Require(); err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			s, err := editable(a, args[0])
			if err != nil {
				return err
			}
			defer s.close()

			req.ID = id
			if err := s.save(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Println("Saved")
			return nil
		},
	}
	saveFlags(cmd, &req)
	return cmd
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(n), nil
}

func ask(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
