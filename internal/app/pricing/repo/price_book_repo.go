package repo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/pricing-engine/internal/app/pricing/contracts"
	"github.com/light-bringer/pricing-engine/internal/app/pricing/domain"
	"github.com/light-bringer/pricing-engine/internal/models/m_price_book"
	"github.com/light-bringer/pricing-engine/internal/models/m_price_book_entry"
	"github.com/light-bringer/pricing-engine/internal/pkg/committer"
	"github.com/light-bringer/pricing-engine/internal/pkg/query"
)

// PriceBookRepo implements PriceBookRepository for Spanner.
type PriceBookRepo struct {
	client  *spanner.Client
	model   *m_price_book.Model
	entries *m_price_book_entry.Model
}

// NewPriceBookRepo creates a new PriceBookRepo.
func NewPriceBookRepo(client *spanner.Client) contracts.PriceBookRepository {
	return &PriceBookRepo{
		client:  client,
		model:   m_price_book.NewModel(),
		entries: m_price_book_entry.NewModel(),
	}
}

// InsertMuts creates mutations for a new book and all of its entries.
func (r *PriceBookRepo) InsertMuts(book *domain.PriceBook) ([]*spanner.Mutation, error) {
	muts := []*spanner.Mutation{r.model.InsertMut(priceBookToData(book))}
	for _, e := range book.Entries() {
		muts = append(muts, r.entries.UpsertMut(entryToData(book.ID(), e)))
	}
	return muts, nil
}

// UpdateMuts creates mutations for dirty book columns and every touched entry.
// Touched items that no longer have an entry are deleted.
func (r *PriceBookRepo) UpdateMuts(book *domain.PriceBook) ([]*spanner.Mutation, error) {
	changes := book.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldName) {
		updates[m_price_book.Name] = book.Name()
	}

	if changes.Dirty(domain.FieldScope) {
		scope := book.Scope()
		updates[m_price_book.Market] = scope.Market
		updates[m_price_book.Channel] = scope.Channel
		updates[m_price_book.Currency] = scope.Currency
	}

	if changes.Dirty(domain.FieldWindow) {
		w := book.Window()
		updates[m_price_book.ValidFrom] = w.From
		updates[m_price_book.ValidTo] = nullTime(w.To)
	}

	if changes.Dirty(domain.FieldStatus) {
		updates[m_price_book.Status] = string(book.Status())
	}

	if changes.Dirty(domain.FieldApproval) {
		if a := book.Approval(); a != nil {
			updates[m_price_book.ApprovedBy] = nullString(a.ApprovedBy)
			updates[m_price_book.ApprovedAt] = a.ApprovedAt
		} else {
			updates[m_price_book.ApprovedBy] = spanner.NullString{}
			updates[m_price_book.ApprovedAt] = spanner.NullTime{}
		}
	}

	// Entry edits still bump the book version.
	updates[m_price_book.Version] = book.Version() + 1

	muts := []*spanner.Mutation{r.model.UpdateMut(book.ID(), updates)}
	if changes.Dirty(domain.FieldEntries) {
		for _, itemID := range book.TouchedItems() {
			if e, ok := book.Entry(itemID); ok {
				muts = append(muts, r.entries.UpsertMut(entryToData(book.ID(), e)))
			} else {
				muts = append(muts, r.entries.DeleteMut(book.ID(), itemID))
			}
		}
	}
	return muts, nil
}

// VersionGuard rejects the commit if the stored book changed since load.
func (r *PriceBookRepo) VersionGuard(book *domain.PriceBook) committer.Guard {
	return committer.VersionGuard(m_price_book.TableName, spanner.Key{book.ID()}, book.Version())
}

// ActiveScopeGuard re-reads the active books of scope inside the transaction
// and rejects the commit unless they are exactly expectedIDs.
func (r *PriceBookRepo) ActiveScopeGuard(scope domain.PriceBookScope, expectedIDs []string) committer.Guard {
	want := append([]string(nil), expectedIDs...)
	sort.Strings(want)

	return func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		stmt := activeByScopeQuery(scope).Select(m_price_book.PriceBookID).Build()
		iter := txn.Query(ctx, stmt)
		defer iter.Stop()

		var got []string
		for {
			row, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read active price books: %w", err)
			}
			var id string
			if err := row.Column(0, &id); err != nil {
				return fmt.Errorf("failed to parse price book id: %w", err)
			}
			got = append(got, id)
		}
		sort.Strings(got)

		if !equalIDs(got, want) {
			return fmt.Errorf("%w: active price books of %s/%s/%s changed",
				committer.ErrVersionConflict, scope.Market, scope.Channel, scope.Currency)
		}
		return nil
	}
}

// GetByID loads a book and its entries from one consistent snapshot.
func (r *PriceBookRepo) GetByID(ctx context.Context, priceBookID string) (*domain.PriceBook, error) {
	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	row, err := txn.ReadRow(ctx, m_price_book.TableName, spanner.Key{priceBookID}, m_price_book.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrPriceBookNotFound
		}
		return nil, fmt.Errorf("failed to read price book: %w", err)
	}

	var data m_price_book.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse price book: %w", err)
	}
	return r.load(ctx, txn, &data)
}

// ListActiveByScope returns the active books of one scope.
func (r *PriceBookRepo) ListActiveByScope(ctx context.Context, scope domain.PriceBookScope) ([]*domain.PriceBook, error) {
	return r.list(ctx, activeByScopeQuery(scope).Select(m_price_book.Columns...).Build())
}

// ListLiveAt returns active books whose window contains at.
func (r *PriceBookRepo) ListLiveAt(ctx context.Context, at time.Time) ([]*domain.PriceBook, error) {
	stmt := query.From(m_price_book.TableName).
		Select(m_price_book.Columns...).
		Where(query.Eq(m_price_book.Status, string(domain.PriceBookActive))).
		Where(query.Lte(m_price_book.ValidFrom, at)).
		Where(query.OpenEndedAfter(m_price_book.ValidTo, at)).
		OrderBy(m_price_book.PriceBookID, query.Asc).
		Build()
	return r.list(ctx, stmt)
}

func activeByScopeQuery(scope domain.PriceBookScope) *query.Builder {
	return query.From(m_price_book.TableName).
		Where(query.Eq(m_price_book.Market, scope.Market)).
		Where(query.Eq(m_price_book.Channel, scope.Channel)).
		Where(query.Eq(m_price_book.Currency, scope.Currency)).
		Where(query.Eq(m_price_book.Status, string(domain.PriceBookActive))).
		OrderBy(m_price_book.PriceBookID, query.Asc)
}

func (r *PriceBookRepo) list(ctx context.Context, stmt spanner.Statement) ([]*domain.PriceBook, error) {
	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	var rows []m_price_book.Data
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate price books: %w", err)
		}
		var data m_price_book.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse price book: %w", err)
		}
		rows = append(rows, data)
	}

	books := make([]*domain.PriceBook, 0, len(rows))
	for i := range rows {
		book, err := r.load(ctx, txn, &rows[i])
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// load reads the entries of one book and rebuilds the aggregate.
func (r *PriceBookRepo) load(ctx context.Context, txn *spanner.ReadOnlyTransaction, data *m_price_book.Data) (*domain.PriceBook, error) {
	iter := txn.Read(ctx, m_price_book_entry.TableName, m_price_book_entry.BookKeys(data.PriceBookID), m_price_book_entry.Columns)
	defer iter.Stop()

	var entries []*domain.PriceBookEntry
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read price book entries: %w", err)
		}
		var ed m_price_book_entry.Data
		if err := row.ToStruct(&ed); err != nil {
			return nil, fmt.Errorf("failed to parse price book entry: %w", err)
		}
		entry, err := dataToEntry(&ed)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return dataToPriceBook(data, entries), nil
}

func priceBookToData(book *domain.PriceBook) *m_price_book.Data {
	scope := book.Scope()
	w := book.Window()
	data := &m_price_book.Data{
		PriceBookID: book.ID(),
		Name:        book.Name(),
		Market:      scope.Market,
		Channel:     scope.Channel,
		Currency:    scope.Currency,
		ValidFrom:   w.From,
		ValidTo:     nullTime(w.To),
		Status:      string(book.Status()),
		Version:     book.Version(),
		CreatedAt:   book.CreatedAt(),
		UpdatedAt:   book.UpdatedAt(),
	}
	if a := book.Approval(); a != nil {
		data.ApprovedBy = nullString(a.ApprovedBy)
		data.ApprovedAt = spanner.NullTime{Time: a.ApprovedAt, Valid: true}
	}
	return data
}

func dataToPriceBook(data *m_price_book.Data, entries []*domain.PriceBookEntry) *domain.PriceBook {
	var approval *domain.Approval
	if data.ApprovedBy.Valid {
		approval = &domain.Approval{ApprovedBy: data.ApprovedBy.StringVal, ApprovedAt: data.ApprovedAt.Time}
	}
	return domain.ReconstructPriceBook(
		data.PriceBookID,
		data.Name,
		domain.PriceBookScope{Market: data.Market, Channel: data.Channel, Currency: data.Currency},
		windowFrom(data.ValidFrom, data.ValidTo),
		domain.PriceBookStatus(data.Status),
		approval,
		entries,
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	)
}

func entryToData(bookID string, e *domain.PriceBookEntry) *m_price_book_entry.Data {
	return &m_price_book_entry.Data{
		PriceBookID: bookID,
		ItemID:      e.ItemID,
		BasePrice:   moneyToNumeric(e.BasePrice),
		Source:      string(e.Source),
		PolicyID:    nullString(e.PolicyID),
	}
}

func dataToEntry(data *m_price_book_entry.Data) (*domain.PriceBookEntry, error) {
	price, err := numericToMoney(&data.BasePrice)
	if err != nil {
		return nil, fmt.Errorf("price book %s item %s: %w", data.PriceBookID, data.ItemID, err)
	}
	return &domain.PriceBookEntry{
		ItemID:    data.ItemID,
		BasePrice: price,
		Source:    domain.PriceSource(data.Source),
		PolicyID:  data.PolicyID.StringVal,
	}, nil
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
