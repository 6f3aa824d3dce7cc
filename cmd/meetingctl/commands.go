package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/crmhub/crmhub/backend/go-services/internal/meeting/service"
	"github.com/spf13/cobra"
)

type opener func(ctx context.Context, mongoURI string) (service.Service, func(), error)

type app struct {
	open     opener
	mongoURI string
}

// with opens the store for one command and always closes it afterwards.
func (a *app) with(cmd *cobra.Command, fn func(service.Service) error) error {
	svc, closeFn, err := a.open(cmd.Context(), a.mongoURI)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(svc)
}

func newRootCmd(open opener) *cobra.Command {
	a := &app{open: open}
	root := &cobra.Command{
		Use:           "meetingctl",
		Short:         "Inspect and clean up meeting records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.mongoURI, "mongo-uri", "", "MongoDB URI (defaults to MONGODB_URI)")
	root.AddCommand(listCmd(a), viewCmd(a), deleteCmd(a), deleteManyCmd(a))
	return root
}

func listCmd(a *app) *cobra.Command {
	var filters []string
	var createdBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active meetings",
		Long: `List active meetings with resolved attendees and creator name.

Examples:
  meetingctl list
  meetingctl list --created-by 64b7f0c2a1b2c3d4e5f60718 --filter location=Berlin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			for _, f := range filters {
				k, v, ok := strings.Cut(f, "=")
				if !ok || k == "" {
					return fmt.Errorf("invalid filter %q, want key=value", f)
				}
				query[k] = v
			}
			if createdBy != "" {
				query["createBy"] = createdBy
			}
			return a.with(cmd, func(svc service.Service) error {
				list, err := svc.List(cmd.Context(), query)
				if err != nil {
					return err
				}
				return printJSON(cmd, list)
			})
		},
	}
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "equality filter key=value (repeatable)")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "only meetings created by this user id")
	return cmd
}

func viewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [meeting-id]",
		Short: "Show one meeting with resolved attendees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.with(cmd, func(svc service.Service) error {
				d, err := svc.View(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, d)
			})
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [meeting-id]",
		Short: "Soft-delete a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.with(cmd, func(svc service.Service) error {
				res, err := svc.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Meeting deleted (matched=%d modified=%d).\n", res.MatchedCount, res.ModifiedCount)
				return nil
			})
		},
	}
}

func deleteManyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-many [meeting-id...]",
		Short: "Soft-delete several meetings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.with(cmd, func(svc service.Service) error {
				res, err := svc.DeleteMany(cmd.Context(), args)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d meeting(s) removed.\n", res.ModifiedCount)
				return nil
			})
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
