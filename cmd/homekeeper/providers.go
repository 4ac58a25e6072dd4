package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/homekeeper/internal/app"
	"github.com/nhle/homekeeper/internal/logging"
	"github.com/nhle/homekeeper/internal/model"
)

var (
	providerSearch string

	newProvider struct {
		name, phone, email, specialty, notes string
	}
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List service providers",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runProviders),
}

var providersAddCmd = &cobra.Command{
	Use:   "add COMPANY",
	Short: "Add a service provider",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runProvidersAdd),
}

func init() {
	providersCmd.Flags().StringVar(&providerSearch, "search", "", "match company, contact, specialty or notes")

	f := providersAddCmd.Flags()
	f.StringVar(&newProvider.name, "name", "", "contact name")
	f.StringVar(&newProvider.phone, "phone", "", "phone number")
	f.StringVar(&newProvider.email, "email", "", "email address")
	f.StringVar(&newProvider.specialty, "specialty", "", "e.g. HVAC, plumbing")
	f.StringVar(&newProvider.notes, "notes", "", "free-form notes")

	providersCmd.AddCommand(providersAddCmd)
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string, e *env) error {
	out := cmd.OutOrStdout()

	list := app.NewProviderListModel(e.store.Providers, e.home.ID, logging.FromContext(cmd.Context()))
	if err := list.Load(cmd.Context()); err != nil {
		_, st := list.Snapshot()
		return fmt.Errorf("%s", st.Message)
	}
	list.SetQuery(providerSearch)
	providers, _ := list.Snapshot()

	rows := make([][]string, len(providers))
	for i, p := range providers {
		rows[i] = []string{
			strconv.FormatInt(p.ID, 10),
			p.Company,
			optional(p.Name),
			optional(p.Phone),
			optional(p.Email),
			optional(p.Specialty),
		}
	}
	header(out, fmt.Sprintf("Service providers (%d)", len(providers)))
	renderTable(out, []string{"ID", "Company", "Contact", "Phone", "Email", "Specialty"}, rows,
		"no providers match")
	return nil
}

func runProvidersAdd(cmd *cobra.Command, args []string, e *env) error {
	created, err := e.store.Providers.Create(cmd.Context(), model.ServiceProvider{
		HomeID:    e.home.ID,
		Company:   args[0],
		Name:      &newProvider.name,
		Phone:     &newProvider.phone,
		Email:     &newProvider.email,
		Specialty: &newProvider.specialty,
		Notes:     newProvider.notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added provider %d: %s\n", created.ID, created.Company)
	return nil
}
