package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/NgigiN/smswallet/internal/categorize"
	"github.com/NgigiN/smswallet/internal/config"
	"github.com/NgigiN/smswallet/internal/smsparse"
	"github.com/NgigiN/smswallet/internal/storage"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var errNotFinancial = errors.New("not a transaction notification")

type Bot struct {
	session    *discordgo.Session
	db         *storage.Database
	parser     *smsparse.Parser
	categories []string
	channelID  string
	healthAddr string
	health     *http.Server
	startTime  time.Time
	log        zerolog.Logger
}

func NewBot(cfg *config.Config, log zerolog.Logger) (*Bot, error) {
	suggester, err := newSuggester(cfg.CategoryRulesPath)
	if err != nil {
		return nil, err
	}
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	// Opened last so no earlier failure leaves it open.
	db, err := storage.NewDatabase(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize the database: %w", err)
	}

	bot := &Bot{
		session: session,
		db:      db,
		parser: smsparse.New(
			smsparse.WithSuggester(suggester),
			smsparse.WithLocation(cfg.Location),
			smsparse.WithLogger(log),
		),
		categories: suggester.Categories(),
		channelID:  cfg.DiscordChannelId,
		healthAddr: cfg.HealthAddr,
		startTime:  time.Now(),
		log:        log,
	}

	session.AddHandler(bot.handleMessage)
	session.Identify.Intents = discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	return bot, nil
}

// newSuggester uses the built-in rules unless a rules file is configured.
func newSuggester(rulesPath string) (*categorize.KeywordSuggester, error) {
	if rulesPath == "" {
		return categorize.NewKeywordSuggester(categorize.DefaultRules()), nil
	}
	rules, err := categorize.LoadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	return categorize.NewKeywordSuggester(rules), nil
}

func (b *Bot) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", b.healthHandler)
	b.health = &http.Server{Addr: b.healthAddr, Handler: mux}
	go b.startHealthServer()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

func (b *Bot) Stop() {
	if b.health != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = b.health.Shutdown(ctx)
	}
	if err := b.session.Close(); err != nil {
		b.log.Warn().Err(err).Msg("closing Discord session")
	}
	if err := b.db.Close(); err != nil {
		b.log.Warn().Err(err).Msg("closing database")
	}
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return //bot's messages
	}

	if m.ChannelID != b.channelID {
		return //specific to the channel
	}

	reply := b.respond(context.Background(), m.Content, m.Timestamp)
	if reply == "" {
		return
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		b.log.Error().Err(err).Str("channel", m.ChannelID).Msg("failed to send reply")
	}
}

// respond produces the channel reply for one Discord message.
func (b *Bot) respond(ctx context.Context, content string, receivedAt time.Time) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	if strings.HasPrefix(content, "!") {
		return b.handleCommand(content)
	}

	lines := strings.Split(content, "\n")
	if isBatchMessage(lines) {
		return b.handleBatch(ctx, lines, receivedAt)
	}

	rec, err := b.ingest(ctx, parseEnvelope(lines), receivedAt)
	if err != nil {
		return fmt.Sprintf("Could not track message: %v", err)
	}
	return formatRecord(rec)
}

func (b *Bot) handleCommand(content string) string {
	args := strings.Fields(content)
	switch args[0] {
	case "!summary":
		return b.handleSummaryCommand(args[1:])
	case "!review":
		return b.handleReviewCommand()
	case "!categorize":
		if len(args) != 3 {
			return "Usage: !categorize <record id> <category>"
		}
		category := strings.ToLower(args[2])
		if !b.isValidCategory(category) {
			return fmt.Sprintf("Invalid category: %s. Use: %s", category, strings.Join(b.categories, ", "))
		}
		if err := b.db.SetUserCategory(args[1], category); err != nil {
			return fmt.Sprintf("Failed to categorize: %v", err)
		}
		return fmt.Sprintf("Categorized %s as %s", args[1], category)
	case "!note":
		if len(args) < 3 {
			return "Usage: !note <record id> <text>"
		}
		if err := b.db.SetNotes(args[1], strings.Join(args[2:], " ")); err != nil {
			return fmt.Sprintf("Failed to save note: %v", err)
		}
		return fmt.Sprintf("Saved note on %s", args[1])
	default:
		return "Commands: !summary [category], !review, !categorize <id> <category>, !note <id> <text>"
	}
}

// ingest parses one SMS, applies any category or note given alongside it
// and stores the record.
func (b *Bot) ingest(ctx context.Context, env smsEnvelope, receivedAt time.Time) (storage.Record, error) {
	if env.Text == "" {
		return storage.Record{}, fmt.Errorf("no message content provided")
	}

	parsed := b.parser.Parse(ctx, env.Text, env.Sender, receivedAt.UnixMilli())
	if !parsed.Metadata.IsFinancial {
		return storage.Record{}, errNotFinancial
	}

	rec := storage.FromParsed(parsed)
	if env.Category != "" {
		category := strings.ToLower(env.Category)
		if !b.isValidCategory(category) {
			return storage.Record{}, fmt.Errorf("invalid category %s, use: %s", category, strings.Join(b.categories, ", "))
		}
		rec.ApplyUserCategory(category)
	}
	if env.Notes != "" {
		notes := env.Notes
		rec.Notes = &notes
	}

	if err := b.db.SaveRecord(&rec); err != nil {
		return storage.Record{}, err
	}
	b.log.Info().
		Str("record_id", rec.RecordID).
		Str("provider", rec.Provider).
		Float64("confidence", rec.Confidence).
		Bool("requires_input", rec.RequiresUserInput).
		Msg("tracked transaction")
	return rec, nil
}

func (b *Bot) handleBatch(ctx context.Context, lines []string, receivedAt time.Time) string {
	envelopes := splitIntoMessages(lines)
	if len(envelopes) == 0 {
		return "No SMS messages found in batch"
	}

	successCount := 0
	var failures []string
	for i, env := range envelopes {
		if _, err := b.ingest(ctx, env, receivedAt); err != nil {
			failures = append(failures, fmt.Sprintf("Message %d: %v", i+1, err))
			continue
		}
		successCount++
	}

	var sb strings.Builder
	sb.WriteString("📊 **Batch Processing Complete**\n")
	fmt.Fprintf(&sb, "✅ **Successfully processed**: %d messages\n", successCount)
	if len(failures) > 0 {
		fmt.Fprintf(&sb, "❌ **Failed**: %d messages\n**Errors:**\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(&sb, "• %s\n", f)
		}
	}
	return sb.String()
}

func (b *Bot) isValidCategory(category string) bool {
	return slices.Contains(b.categories, strings.ToLower(category))
}

func (b *Bot) handleSummaryCommand(args []string) string {
	switch len(args) {
	case 0:
		return b.allCategoriesSummary()
	case 1:
		return b.categorySummary(strings.ToLower(args[0]))
	default:
		return "Usage: !summary [category]\nExamples:\n!summary - show all categories\n!summary food - show food transactions"
	}
}

// A cases.Caser is not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func (b *Bot) allCategoriesSummary() string {
	summary, err := b.db.GetCategorySummary()
	if err != nil {
		return fmt.Sprintf("Failed to get summary: %v", err)
	}
	if len(summary) == 0 {
		return "No transactions found."
	}

	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("📊 **Transaction Summary**\n\n")
	total := decimal.Zero
	for _, name := range names {
		fmt.Fprintf(&sb, "**%s**: %s %s\n", titleCase(name), smsparse.HomeCurrency, summary[name].StringFixed(2))
		total = total.Add(summary[name])
	}
	fmt.Fprintf(&sb, "\n**Total**: %s %s", smsparse.HomeCurrency, total.StringFixed(2))
	return sb.String()
}

func (b *Bot) categorySummary(category string) string {
	recs, err := b.db.GetRecordsByCategory(category)
	if err != nil {
		return fmt.Sprintf("Failed to get transactions: %v", err)
	}
	if len(recs) == 0 {
		return fmt.Sprintf("No transactions found for category: %s", category)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 **%s Transactions**\n\n", titleCase(category))

	// Show last 10 transactions
	limit := min(10, len(recs))
	for _, rec := range recs[:limit] {
		fmt.Fprintf(&sb, "• **%s %s** %s\n  %s - %s\n\n",
			rec.Currency, rec.Amount.StringFixed(2), describeCounterparty(rec), rec.Date, rec.RecordID)
	}
	if len(recs) > limit {
		fmt.Fprintf(&sb, "... and %d more transactions\n\n", len(recs)-limit)
	}

	total := decimal.Zero
	for _, rec := range recs {
		total = total.Add(rec.Amount)
	}
	fmt.Fprintf(&sb, "**Total %s**: %s %s (%d transactions)", titleCase(category), smsparse.HomeCurrency, total.StringFixed(2), len(recs))
	return sb.String()
}

func (b *Bot) handleReviewCommand() string {
	recs, err := b.db.ListNeedingInput(10)
	if err != nil {
		return fmt.Sprintf("Failed to load records: %v", err)
	}
	if len(recs) == 0 {
		return "Nothing to review."
	}

	var sb strings.Builder
	sb.WriteString("📝 **Needs your input**\n\n")
	for _, rec := range recs {
		fmt.Fprintf(&sb, "• `%s` %s %s %s (%s)\n", rec.RecordID, rec.Currency, rec.Amount.StringFixed(2), describeCounterparty(rec), reviewReason(rec))
	}
	return sb.String()
}

func describeCounterparty(rec storage.Record) string {
	if rec.Merchant != nil {
		return "at " + *rec.Merchant
	}
	return "via " + rec.Provider
}

func reviewReason(rec storage.Record) string {
	var reasons []string
	if rec.NeedsReview {
		reasons = append(reasons, fmt.Sprintf("low confidence %.2f", rec.Confidence))
	}
	if len(rec.MissingFields) > 0 {
		reasons = append(reasons, "missing "+strings.Join(rec.MissingFields, ", "))
	}
	return strings.Join(reasons, "; ")
}

func formatRecord(rec storage.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tracked `%s`: %s %s %s %s on %s [%s]",
		rec.RecordID, rec.Type, rec.Currency, rec.Amount.StringFixed(2),
		describeCounterparty(rec), rec.Date, rec.MessageCategory)
	fmt.Fprintf(&sb, " in %s", rec.EffectiveCategory())
	if rec.RequiresUserInput {
		fmt.Fprintf(&sb, "\n⚠️ Needs input: %s. Use !categorize %s <category>", reviewReason(rec), rec.RecordID)
	}
	return sb.String()
}

type healthStatus struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	DiscordConnected bool   `json:"discord_connected"`
	Timestamp        string `json:"timestamp"`
}

func (b *Bot) healthHandler(w http.ResponseWriter, _ *http.Request) {
	connected := b.session != nil && b.session.DataReady
	status := healthStatus{
		Status:           "healthy",
		Uptime:           time.Since(b.startTime).String(),
		DiscordConnected: connected,
		Timestamp:        time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if !connected {
		status.Status = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (b *Bot) startHealthServer() {
	if err := b.health.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		b.log.Error().Err(err).Str("addr", b.healthAddr).Msg("health server stopped")
	}
}
