package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/tagcache"
)

func tagCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Read or touch tag versions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "read NAME...",
			Short: "Print tag versions, creating unknown tags",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return cfg.withCache(cmd.Context(), func(tc tagcache.Cache[string]) error {
					versions, err := tc.ReadTags(cmd.Context(), args...)
					if err != nil {
						return err
					}
					printVersions(cmd, versions)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "touch NAME...",
			Short: "Bump tag versions, invalidating dependent entities",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return cfg.withCache(cmd.Context(), func(tc tagcache.Cache[string]) error {
					versions, err := tc.TouchTags(cmd.Context(), tagcache.Tags(args...)...)
					if err != nil {
						return err
					}
					printVersions(cmd, versions)
					return nil
				})
			},
		},
	)
	return cmd
}

func getCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print a cached entity if it is still valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.withCache(cmd.Context(), func(tc tagcache.Cache[string]) error {
				v, ok, err := tc.Read(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s: miss", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func setCmd(cfg *config) *cobra.Command {
	var depends []string
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Write an entity depending on the given tags",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.withCache(cmd.Context(), func(tc tagcache.Cache[string]) error {
				return tc.Write(cmd.Context(), args[0], args[1], depends...)
			})
		},
	}
	cmd.Flags().StringSliceVar(&depends, "depends", nil, "Tags the entity depends on")
	return cmd
}

func clearCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all entities in the namespace; tag versions are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cfg.withCache(cmd.Context(), func(tc tagcache.Cache[string]) error {
				return tc.Clear(cmd.Context())
			})
		},
	}
}

func printVersions(cmd *cobra.Command, versions map[string]int64) {
	names := make([]string, 0, len(versions))
	for n := range versions {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", n, versions[n])
	}
}
