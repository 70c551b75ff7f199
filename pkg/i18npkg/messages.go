// Package i18npkg maps application errors to localized client messages.
package i18npkg

import (
	"errors"

	"golang.org/x/text/language"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// Supported languages, the first one is the fallback.
var supported = []language.Tag{
	language.English,
	language.Turkish,
}

var matcher = language.NewMatcher(supported)

type message struct {
	code string
	text map[language.Tag]string
}

var catalog = []struct {
	err error
	msg message
}{
	{domain.ErrAccountNotFound, message{"ACCOUNT_NOT_FOUND", map[language.Tag]string{
		language.English: "Account not found",
		language.Turkish: "Hesap bulunamadı",
	}}},
	{domain.ErrAccountInactive, message{"ACCOUNT_INACTIVE", map[language.Tag]string{
		language.English: "Account is not active",
		language.Turkish: "Hesap aktif değil",
	}}},
	{domain.ErrSameAccount, message{"SAME_ACCOUNT", map[language.Tag]string{
		language.English: "Cannot transfer to the same account",
		language.Turkish: "Aynı hesaba transfer yapılamaz",
	}}},
	{domain.ErrInvalidAmount, message{"INVALID_AMOUNT", map[language.Tag]string{
		language.English: "Amount must be positive",
		language.Turkish: "Tutar pozitif olmalıdır",
	}}},
	{domain.ErrInsufficientFunds, message{"INSUFFICIENT_FUNDS", map[language.Tag]string{
		language.English: "Insufficient balance",
		language.Turkish: "Yetersiz bakiye",
	}}},
	{domain.ErrRateUnavailable, message{"RATE_UNAVAILABLE", map[language.Tag]string{
		language.English: "Exchange rate not found",
		language.Turkish: "Döviz kuru bulunamadı",
	}}},
	{domain.ErrConcurrencyConflict, message{"CONCURRENCY_CONFLICT", map[language.Tag]string{
		language.English: "The account is busy, please retry",
		language.Turkish: "Hesap şu anda meşgul, lütfen tekrar deneyin",
	}}},
	{domain.ErrTransferNotFound, message{"TRANSFER_NOT_FOUND", map[language.Tag]string{
		language.English: "Transfer not found",
		language.Turkish: "Transfer bulunamadı",
	}}},
	{domain.ErrTransactionNotFound, message{"TRANSACTION_NOT_FOUND", map[language.Tag]string{
		language.English: "Transaction not found",
		language.Turkish: "İşlem bulunamadı",
	}}},
	{domain.ErrUnsupportedCurrency, message{"UNSUPPORTED_CURRENCY", map[language.Tag]string{
		language.English: "Currency is not supported",
		language.Turkish: "Para birimi desteklenmiyor",
	}}},
	{domain.ErrAccountNumberExists, message{"ACCOUNT_NUMBER_EXISTS", map[language.Tag]string{
		language.English: "Account number is already in use, please retry",
		language.Turkish: "Hesap numarası zaten kullanımda, lütfen tekrar deneyin",
	}}},
	{errorspkg.ErrInternal, message{"INTERNAL", map[language.Tag]string{
		language.English: "An error occurred while processing the request",
		language.Turkish: "İşlem sırasında bir hata oluştu",
	}}},
}

// Language picks the best supported language for the Accept-Language header value.
func Language(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return supported[0]
	}

	return supported[index]
}

// Localize returns the stable code and the localized message for err.
//
// Unknown errors are reported as internal so that driver details never reach the client.
func Localize(err error, acceptLanguage string) (code, text string) {
	lang := Language(acceptLanguage)

	for _, entry := range catalog {
		if errors.Is(err, entry.err) {
			return entry.msg.code, entry.msg.text[lang]
		}
	}

	internal := catalog[len(catalog)-1].msg

	return internal.code, internal.text[lang]
}
