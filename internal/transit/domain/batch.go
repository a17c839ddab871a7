package domain

import (
	"fmt"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

// BatchResult is the outcome of one item of a batched transit call: either a value or
// the cause of that item's failure. A failed item never affects the other items.
type BatchResult[T any] struct {
	index int
	value T
	err   error
}

// Success creates a successful result at the given input index.
func Success[T any](index int, value T) BatchResult[T] {
	return BatchResult[T]{index: index, value: value}
}

// Failure creates a failed result at the given input index. A nil cause is replaced with
// ErrRemoteService so a failure can never be mistaken for a success.
func Failure[T any](index int, cause error) BatchResult[T] {
	if cause == nil {
		cause = apperrors.ErrRemoteService
	}
	return BatchResult[T]{index: index, err: cause}
}

// Index returns the position of the corresponding input item.
func (r BatchResult[T]) Index() int {
	return r.index
}

// Successful reports whether the item succeeded.
func (r BatchResult[T]) Successful() bool {
	return r.err == nil
}

// Cause returns the failure cause, or nil for a success.
func (r BatchResult[T]) Cause() error {
	return r.err
}

// Get returns the value of a success, or the zero value and the captured cause of a failure.
func (r BatchResult[T]) Get() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// EncryptionResult is the per-item result of a batch encrypt or rewrap.
type EncryptionResult = BatchResult[Ciphertext]

// DecryptionResult is the per-item result of a batch decrypt.
type DecryptionResult struct {
	BatchResult[Plaintext]
}

// GetAsString returns the decrypted plaintext as a string, or the captured cause.
func (r DecryptionResult) GetAsString() (string, error) {
	plaintext, err := r.Get()
	if err != nil {
		return "", err
	}
	return plaintext.String(), nil
}

// BatchItem is one raw entry of a batch_results array. Error is non-empty when the remote
// service reported a failure for that item.
type BatchItem struct {
	Fields map[string]any
	Error  string
}

// ParseBatchItems converts a raw batch_results value into items. Any shape other than
// an array of objects is a protocol violation.
func ParseBatchItems(raw any) ([]BatchItem, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: batch_results is %T, expected an array", apperrors.ErrProtocol, raw)
	}

	items := make([]BatchItem, 0, len(list))
	for i, entry := range list {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: batch_results[%d] is %T, expected an object", apperrors.ErrProtocol, i, entry)
		}
		item := BatchItem{Fields: fields}
		if msg, ok := fields["error"].(string); ok {
			item.Error = msg
		}
		items = append(items, item)
	}
	return items, nil
}

// Aggregate correlates batch items with inputs by position. The remote service answers
// in request order with one item per input; a length mismatch fails the whole call with
// ErrProtocol. Item errors and conversion errors become per-item failures.
func Aggregate[I, R any](
	inputs []I,
	items []BatchItem,
	convert func(input I, item BatchItem) (R, error),
) ([]BatchResult[R], error) {
	if len(items) != len(inputs) {
		return nil, fmt.Errorf(
			"%w: sent %d batch items, received %d results",
			apperrors.ErrProtocol,
			len(inputs),
			len(items),
		)
	}

	results := make([]BatchResult[R], len(inputs))
	for i, input := range inputs {
		item := items[i]
		if item.Error != "" {
			results[i] = Failure[R](i, ClassifyItemError(item.Error))
			continue
		}

		value, err := convert(input, item)
		if err != nil {
			results[i] = Failure[R](i, err)
			continue
		}
		results[i] = Success(i, value)
	}
	return results, nil
}
