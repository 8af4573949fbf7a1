package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bitfantasy/mashg/internal/client"
	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"github.com/spf13/cobra"
)

var (
	factoryName    string
	factoryAddress string
	factoryMapLink string
)

var factoriesCmd = &cobra.Command{
	Use:   "factories [query]",
	Short: "List factories, or search them by name or address",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		var items []entity.Factory
		if len(args) > 0 {
			items, err = c.SearchFactories(cmd.Context(), strings.Join(args, " "))
		} else {
			items, err = c.ListFactories(cmd.Context())
		}
		if err != nil {
			return err
		}
		printFactories(items)
		return nil
	},
}

var addFactoryCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a factory",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		f, err := c.CreateFactory(cmd.Context(), client.FactoryInput{
			Name:    factoryName,
			Address: factoryAddress,
			MapLink: factoryMapLink,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Factory #%d created\n", f.ID)
		return nil
	},
}

func init() {
	addFactoryCmd.Flags().StringVarP(&factoryName, "name", "n", "", "factory name (required)")
	addFactoryCmd.Flags().StringVarP(&factoryAddress, "address", "a", "", "factory address (required)")
	addFactoryCmd.Flags().StringVarP(&factoryMapLink, "map-link", "m", "", "map URL")
	addFactoryCmd.MarkFlagRequired("name")
	addFactoryCmd.MarkFlagRequired("address")

	factoriesCmd.AddCommand(addFactoryCmd)
}

func printFactories(items []entity.Factory) {
	if len(items) == 0 {
		fmt.Println("No factories found.")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tMAP")
	for _, f := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", f.ID, f.Name, f.Address, f.MapLink)
	}
	tw.Flush()
}
