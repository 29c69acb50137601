package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hant3k/hant3k/pkg/scope"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Check whether a scope is attached",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := scope.New(scopeIndex)
		defer s.Done()

		found, err := s.Discover()
		if err != nil {
			return err
		}
		if !found {
			return scope.ErrNotFound
		}
		fmt.Println("scope found")
		return nil
	},
}
