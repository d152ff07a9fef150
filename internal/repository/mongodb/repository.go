package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
)

// Repository defines the archive operations backed by MongoDB. The spreadsheet
// stays the system of record; Mongo keeps queryable copies of immutable
// snapshots.
type Repository interface {
	ArchiveSale(ctx context.Context, record models.SaleRecord) error
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// MongoRepository implements Repository.
type MongoRepository struct {
	client *mongo.Client
	dbName string
}

// Amounts are stored as fixed 2-decimal strings; decimal.Decimal has no bson
// representation and floats would reintroduce the rounding drift the billing
// engine avoids.
type saleDoc struct {
	BillID        string    `bson:"bill_id"`
	Timestamp     time.Time `bson:"timestamp"`
	CustomerPhone string    `bson:"customer_phone,omitempty"`
	Lines         []lineDoc `bson:"lines"`
	Subtotal      string    `bson:"subtotal"`
	DiscountTotal string    `bson:"discount_total"`
	Tax           string    `bson:"tax"`
	GrandTotal    string    `bson:"grand_total"`
	OperatorID    string    `bson:"operator_id"`
	ArchivedAt    time.Time `bson:"archived_at"`
}

type lineDoc struct {
	ItemID    string `bson:"item_id"`
	Name      string `bson:"name"`
	Quantity  int    `bson:"quantity"`
	UnitPrice string `bson:"unit_price"`
	LineTotal string `bson:"line_total"`
}

type dailySummaryDoc struct {
	Date          time.Time `bson:"date"`
	SalesCount    int       `bson:"sales_count"`
	Gross         string    `bson:"gross"`
	DiscountTotal string    `bson:"discount_total"`
	TaxTotal      string    `bson:"tax_total"`
	CreatedAt     time.Time `bson:"created_at"`
}

// NewMongoRepository creates a new MongoDB archive repository.
func NewMongoRepository(ctx context.Context, uri string, dbName string) (*MongoRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoRepository{client: client, dbName: dbName}, nil
}

// ArchiveSale stores an immutable copy of a checkout snapshot.
func (r *MongoRepository) ArchiveSale(ctx context.Context, record models.SaleRecord) error {
	lines := make([]lineDoc, 0, len(record.Lines))
	for _, line := range record.Lines {
		lines = append(lines, lineDoc{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			LineTotal: line.LineTotal.StringFixed(2),
		})
	}

	doc := saleDoc{
		BillID:        record.BillID,
		Timestamp:     record.Timestamp,
		CustomerPhone: record.CustomerPhone,
		Lines:         lines,
		Subtotal:      record.Subtotal.StringFixed(2),
		DiscountTotal: record.DiscountTotal.StringFixed(2),
		Tax:           record.Tax.StringFixed(2),
		GrandTotal:    record.GrandTotal.StringFixed(2),
		OperatorID:    record.OperatorID,
		ArchivedAt:    time.Now().UTC(),
	}

	collection := r.client.Database(r.dbName).Collection("sales")
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert sale %s: %w", record.BillID, err)
	}
	return nil
}

// SaveDailySummary stores one close-of-day aggregate.
func (r *MongoRepository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	doc := dailySummaryDoc{
		Date:          summary.Date,
		SalesCount:    summary.SalesCount,
		Gross:         summary.Gross.StringFixed(2),
		DiscountTotal: summary.DiscountTotal.StringFixed(2),
		TaxTotal:      summary.TaxTotal.StringFixed(2),
		CreatedAt:     time.Now().UTC(),
	}

	collection := r.client.Database(r.dbName).Collection("daily_summaries")
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert daily summary: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
