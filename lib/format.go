package lib

import (
	"log/slog"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ardnew/atx/lang"
)

// DefaultLocale is the locale used when a format function is called without
// one.
const DefaultLocale = "en-US"

func formats() []lang.Function {
	return []lang.Function{
		lang.Direct("format_number",
			lang.Arity1(func(_ lang.Env, v lang.Value) (lang.Value, error) {
				return formatNumber(v, lang.String(DefaultLocale))
			}),
			lang.Arity2(func(_ lang.Env, v, locale lang.Value) (lang.Value, error) {
				return formatNumber(v, locale)
			}),
		).WithDoc(
			"Formats a number with the digit grouping of a locale.",
			lang.Example{Expression: `format_number(1234567.5)`, Result: "1,234,567.5"},
			lang.Example{Expression: `format_number(1234567, "de")`, Result: "1.234.567"},
		),
		lang.Direct("format_percent",
			lang.Arity1(func(_ lang.Env, v lang.Value) (lang.Value, error) {
				return formatPercent(v, lang.String(DefaultLocale))
			}),
			lang.Arity2(func(_ lang.Env, v, locale lang.Value) (lang.Value, error) {
				return formatPercent(v, locale)
			}),
		).WithDoc(
			"Formats a ratio as a percentage in a locale.",
			lang.Example{Expression: `format_percent(0.25)`, Result: "25%"},
		),
		lang.Direct("format_currency",
			lang.Arity2(func(_ lang.Env, v, code lang.Value) (lang.Value, error) {
				return formatCurrency(v, code, lang.String(DefaultLocale))
			}),
			lang.Arity3(func(_ lang.Env, v, code, locale lang.Value) (lang.Value, error) {
				return formatCurrency(v, code, locale)
			}),
		).WithDoc(
			"Formats an amount of an ISO 4217 currency in a locale.",
			lang.Example{Expression: `format_currency(1234.5, "USD")`, Result: "$ 1,234.50"},
		),
	}
}

func printer(fn string, locale lang.Value) (*message.Printer, error) {
	tag, err := language.Parse(locale.Text())
	if err != nil {
		return nil, ErrInvalidArgument.Wrap(err).With(
			slog.String("function", fn),
			slog.String("locale", locale.Text()),
		)
	}

	return message.NewPrinter(tag), nil
}

func formatNumber(v, locale lang.Value) (lang.Value, error) {
	n, err := numeric("format_number", v)
	if err != nil {
		return lang.Null(), err
	}

	p, err := printer("format_number", locale)
	if err != nil {
		return lang.Null(), err
	}

	return lang.String(p.Sprint(number.Decimal(n.Native()))), nil
}

func formatPercent(v, locale lang.Value) (lang.Value, error) {
	f, err := float("format_percent", v)
	if err != nil {
		return lang.Null(), err
	}

	p, err := printer("format_percent", locale)
	if err != nil {
		return lang.Null(), err
	}

	return lang.String(p.Sprint(number.Percent(f))), nil
}

func formatCurrency(v, code, locale lang.Value) (lang.Value, error) {
	f, err := float("format_currency", v)
	if err != nil {
		return lang.Null(), err
	}

	unit, err := currency.ParseISO(code.Text())
	if err != nil {
		return lang.Null(), ErrInvalidArgument.Wrap(err).With(
			slog.String("function", "format_currency"),
			slog.String("currency", code.Text()),
		)
	}

	p, err := printer("format_currency", locale)
	if err != nil {
		return lang.Null(), err
	}

	return lang.String(p.Sprint(currency.Symbol(unit.Amount(f)))), nil
}
