package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"newsletter_client/internal/domain"
	"newsletter_client/internal/service"
)

const dateLayout = "Jan 2, 2006"

func (a *app) topics(ctx context.Context) error {
	loader := service.NewTopicCatalogLoader(a.loop, a.client, a.cfg.Catalog, a.logger)
	defer loader.Close()

	loader.Load()
	if err := a.runUntil(ctx, func() bool { return !loader.State().Loading }); err != nil {
		return err
	}

	state := loader.State()
	if state.FromFallback {
		fmt.Fprintln(a.out, "(topics unavailable, showing defaults)")
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, t := range state.Catalog.Topics() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Label, t.Description)
	}
	return w.Flush()
}

func (a *app) preview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	topics := fs.String("topics", "", "comma-separated topic ids")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sel := domain.ParseTopicSelection(*topics)
	if sel.IsEmpty() {
		return errors.New("no topics given")
	}

	loader := service.NewTopicCatalogLoader(a.loop, a.client, a.cfg.Catalog, a.logger)
	defer loader.Close()
	previews := service.NewPreviewFetchCoordinator(a.loop, a.client, a.recorder, a.cfg.Preview.Limit, a.logger)
	defer previews.Close()

	loader.Load()
	previews.SelectionChanged(sel)

	err := a.runUntil(ctx, func() bool {
		return !loader.State().Loading && !previews.State().Loading
	})
	if err != nil {
		return err
	}

	a.printPreviews(service.Heading(sel, loader.State().Catalog), previews.State().List)
	return nil
}

func (a *app) subscribe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("subscribe", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	topics := fs.String("topics", "", "comma-separated topic ids")
	if err := fs.Parse(args); err != nil {
		return err
	}

	home := service.NewHomePage(a.loop, a.client, a.client, a.client, a.publisher, a.recorder, service.HomeConfig{
		Preview:  a.cfg.Preview,
		Catalog:  a.cfg.Catalog,
		Composer: a.cfg.Composer,
	}, a.logger)
	defer home.Close()

	home.Start()
	if err := a.runUntil(ctx, func() bool { return !home.Composer.State().LoadingTopics }); err != nil {
		return err
	}

	catalog := home.Catalog.State().Catalog
	want := domain.ParseTopicSelection(*topics)
	for _, id := range want.IDs() {
		if _, ok := catalog.Lookup(id); !ok {
			a.logger.Warn("unknown topic ignored", "topic", id)
		}
	}

	current := home.Composer.State().SelectedTopics
	for _, id := range current.IDs() {
		if !want.Contains(id) {
			home.Composer.ToggleTopic(id)
		}
	}
	for _, id := range want.IDs() {
		if !current.Contains(id) {
			home.Composer.ToggleTopic(id)
		}
	}
	home.Composer.SetEmail(*email)

	if err := a.runUntil(ctx, func() bool { return !home.Preview.State().Loading }); err != nil {
		return err
	}
	if heading := home.Heading(); heading != "" {
		a.printPreviews(heading, home.Preview.State().List)
	}

	if err := home.Composer.Submit(); err != nil {
		return err
	}
	err := a.runUntil(ctx, func() bool { return home.Composer.State().Phase != service.PhaseSubmitting })
	if err != nil {
		return err
	}

	state := home.Composer.State()
	if state.Phase == service.PhaseError {
		return errors.New(state.Message)
	}
	fmt.Fprintln(a.out, "Subscribed. Check your inbox for your first newsletter.")

	return a.loop.Drain(ctx)
}

func (a *app) unsubscribe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("unsubscribe", flag.ContinueOnError)
	token := fs.String("token", "", "unsubscribe token from the email link")
	confirm := fs.Bool("yes", false, "confirm the unsubscribe")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow := service.NewUnsubscribeFlow(a.loop, a.client, a.publisher, *token, a.logger)
	defer flow.Close()

	flow.Start()
	loaded := func() bool { return flow.State().Status != service.UnsubscribeLoading }
	if err := a.runUntil(ctx, loaded); err != nil {
		return err
	}

	state := flow.State()
	switch state.Status {
	case service.UnsubscribeError:
		return errors.New(state.Message)
	case service.UnsubscribeAlreadyInactive:
		fmt.Fprintln(a.out, state.Message)
		return nil
	}

	fmt.Fprintf(a.out, "Email:  %s\nTopics: %s\n", state.Record.Email, humanizeTopics(state.Record.Topics))
	if !*confirm {
		fmt.Fprintf(a.out, "Run again with -yes to unsubscribe, or keep your subscription at %s\n", flow.Keep())
		return nil
	}

	if err := flow.Confirm(); err != nil {
		return err
	}
	settled := func() bool { return flow.State().Status != service.UnsubscribeSubmitting }
	if err := a.runUntil(ctx, settled); err != nil {
		return err
	}

	state = flow.State()
	if state.Status != service.Unsubscribed {
		return errors.New(state.Message)
	}
	fmt.Fprintln(a.out, state.Message)

	return a.loop.Drain(ctx)
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	id := fs.String("id", "", "newsletter id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	loader := service.NewNewsletterDetailLoader(a.loop, a.client, *id, a.logger)
	defer loader.Close()

	loader.Start()
	if err := a.runUntil(ctx, func() bool { return loader.State().Status != service.DetailLoading }); err != nil {
		return err
	}

	state := loader.State()
	if state.Status == service.DetailNotFound {
		return fmt.Errorf("%s (back to %s)", state.Message, state.BackLink)
	}

	n := state.Newsletter
	fmt.Fprintf(a.out, "%s\n", n.Title)
	fmt.Fprintf(a.out, "Sent %s to %d subscribers\n", n.SentAt.Format(dateLayout), n.SubscriberCount)
	fmt.Fprintf(a.out, "Topics: %s\n\n", state.TopicLabels())
	fmt.Fprintln(a.out, n.ContentHTML)
	return nil
}

func (a *app) health(ctx context.Context) error {
	if err := a.client.Health(ctx); err != nil {
		return fmt.Errorf("check health: %w", err)
	}
	fmt.Fprintln(a.out, "healthy")
	return nil
}

func (a *app) printPreviews(heading string, list domain.NewsletterPreviewList) {
	fmt.Fprintf(a.out, "Recent %s newsletters\n", heading)
	if len(list.Newsletters) == 0 {
		fmt.Fprintln(a.out, "  No newsletters yet for these topics.")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, n := range list.Newsletters {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%d subscribers\n", n.ID, n.Title, n.SentAt.Format(dateLayout), n.SubscriberCount)
	}
	_ = w.Flush()
}

func humanizeTopics(ids []string) string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, domain.HumanizeTopic(id))
	}
	return strings.Join(labels, ", ")
}
