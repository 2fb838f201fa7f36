// Package ipfilter runs one read, sort and report cycle over a list of IPv4
// addresses.
package ipfilter

import (
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go4.org/netipx"

	"project/ip-filter/address"
	"project/ip-filter/filter"
	"project/ip-filter/formatter"
)

// Options describes one run.
type Options struct {
	// Source is the input file. Empty, or a file that cannot be opened,
	// means standard input.
	Source string
	// Destination is the output file. Empty, or a file that cannot be
	// created, means standard output.
	Destination string
	Mode        Mode
	Policy      address.Policy
	Format      formatter.Format
	// Predicates replaces the default four reports when set.
	Predicates []filter.Predicate
	Logger     *zap.Logger
}

// Summary reports what a run did.
type Summary struct {
	Lines    int
	Accepted int
	Skipped  int
	Emitted  int
	// Matches holds the number of matches of each predicate, in order.
	Matches []int
	// Digest is the xxhash64 of the emitted output.
	Digest uint64
	// Span covers the lowest to the highest accepted address.
	Span netipx.IPRange
}

// Run reads every line of the source, sorts the accepted addresses and
// writes the filtered reports. Files opened by Run are closed before it
// returns, whatever the outcome. The run is synchronous and cannot be
// cancelled, so it takes no context.
func Run(opts Options, stdin io.Reader, stdout io.Writer) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if !opts.Mode.valid() {
		return Summary{}, errors.Wrapf(ErrUnknownMode, "mode %d", int(opts.Mode))
	}

	src, closeSrc := openSource(opts.Source, stdin, logger)
	defer closeSrc()

	catalog := &address.Catalog{}
	stats, err := address.Load(src, opts.Policy, catalog, logger)
	if err != nil {
		return Summary{}, errors.Wrap(err, "loading addresses")
	}
	logger.Info("addresses loaded",
		zap.String("lines", humanize.Comma(int64(stats.Lines))),
		zap.String("accepted", humanize.Comma(int64(stats.Accepted))),
		zap.String("skipped", humanize.Comma(int64(stats.Skipped))))

	summary := Summary{
		Lines:    stats.Lines,
		Accepted: stats.Accepted,
		Skipped:  stats.Skipped,
		Span:     catalog.Span(),
	}

	var view filter.Source
	switch opts.Mode {
	case ModeLegacy:
		table := projectLegacy(catalog)
		table.sortDescending()
		view = table
	case ModeRange:
		catalog.SortDescending()
		view = catalog
	}

	// The destination is opened only once the input is fully read, so a
	// failed read leaves an existing output file untouched.
	dst, closeDst := openDestination(opts.Destination, logger)
	reporter := formatter.NewReporter(dst, stdout, opts.Format)
	pipeline := filter.New(opts.Predicates...)
	summary.Matches = pipeline.Run(view, reporter)
	summary.Emitted = reporter.Lines()
	summary.Digest = reporter.Digest()

	flushErr := reporter.Flush()
	closeErr := closeDst()
	if flushErr != nil {
		return summary, flushErr
	}
	if closeErr != nil {
		return summary, errors.Wrap(closeErr, "closing destination")
	}

	for i, pred := range pipeline.Predicates() {
		logger.Debug("report written", zap.String("filter", pred.Name), zap.Int("matches", summary.Matches[i]))
	}
	logger.Info("run complete",
		zap.Stringer("mode", opts.Mode),
		zap.String("emitted", humanize.Comma(int64(summary.Emitted))),
		zap.Stringer("span", summary.Span),
		zap.Uint64("digest", summary.Digest))
	return summary, nil
}

func openSource(path string, stdin io.Reader, logger *zap.Logger) (io.Reader, func()) {
	if path == "" {
		return stdin, func() {}
	}
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("input file unavailable, reading standard input", zap.String("path", path), zap.Error(err))
		return stdin, func() {}
	}
	logger.Info("reading input file", zap.String("path", path))
	return f, func() { _ = f.Close() }
}

// openDestination returns a nil writer when output goes to standard output.
func openDestination(path string, logger *zap.Logger) (io.Writer, func() error) {
	if path == "" {
		return nil, func() error { return nil }
	}
	f, err := os.Create(path)
	if err != nil {
		logger.Warn("output file unavailable, writing standard output", zap.String("path", path), zap.Error(err))
		return nil, func() error { return nil }
	}
	logger.Info("writing output file", zap.String("path", path))
	return f, f.Close
}
