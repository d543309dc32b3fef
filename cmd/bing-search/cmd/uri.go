package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newURICmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "uri <query>",
		Short: "Print the request URI without sending it",
		Long: `Print the request URI for each vertical without sending it.

No API key is needed since nothing leaves the machine.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verticals, err := opts.parseVerticals()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			return withSession(cmd, false, func(s *session) error {
				for _, v := range verticals {
					o, err := opts.build(cmd, v)
					if err != nil {
						return err
					}
					uri, err := s.client.BuildURI(v, query, o)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), uri)
				}
				return nil
			})
		},
	}

	opts.register(cmd)
	return cmd
}
