package main

import (
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/kapu/icondeck/internal/adapter"
	"github.com/kapu/icondeck/internal/util"
)

var imagesLimit int

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Resolve and print portrait URLs",
	Long: `Looks up portraits for the first N personalities through the image cache
and the Wikipedia page-images API, then prints what was found.`,
	RunE: runImages,
}

func init() {
	imagesCmd.Flags().IntVar(&imagesLimit, "limit", 10, "Number of personalities to resolve (0 for all)")
}

func runImages(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	people := container.Roster.All()
	if imagesLimit > 0 {
		people = people[:util.Clamp(imagesLimit, 0, len(people))]
	}

	lines := make([]adapter.ImageLine, len(people))
	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(container.Config.Images.Concurrency)
	for idx, person := range people {
		idx, person := idx, person
		p.Go(func() {
			url, ok := container.Resolver.Resolve(ctx, person)
			mu.Lock()
			lines[idx] = adapter.ImageLine{
				ID:     person.ID,
				Name:   person.Name,
				URL:    url,
				Failed: !ok,
			}
			mu.Unlock()
		})
	}
	p.Wait()

	out, err := adapter.NewReportFormatter(0).FormatImages(lines)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
