// Package main implements a standalone seed script that populates the
// directory with realistic test data: a set of automotive service shops,
// reviews spread across fake users, and the denormalized aggregates the API
// would otherwise maintain. It talks to PostgreSQL directly.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/silentc1/mobileotosanayi-sub000/pkg/slug"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type seedBusiness struct {
	name        string
	description string
	phone       string
	city        string
	district    string
	category    string
}

var businesses = []seedBusiness{
	{"Usta Oto Servis", "Motor ve sanziman bakim servisi", "+905551230001", "Istanbul", "Kadikoy", "oto-tamir"},
	{"Çelik Kaporta Dövme", "Kaporta duzeltme ve boya", "+905551230002", "Istanbul", "Umraniye", "kaporta"},
	{"Yıldız Oto Elektrik", "Oto elektrik ve ariza tespiti", "+905551230003", "Ankara", "Cankaya", "oto-elektrik"},
	{"Demir Egzoz Merkezi", "Egzoz tamiri ve emisyon olcumu", "+905551230004", "Ankara", "Kecioren", "egzoz"},
	{"Şahin Lastik & Balans", "Lastik degisimi, balans ve rot ayari", "+905551230005", "Izmir", "Bornova", "lastik"},
	{"Kaya Oto Cam", "Oto cam degisimi ve folyo", "+905551230006", "Izmir", "Karsiyaka", "oto-cam"},
	{"Güven Fren Sistemleri", "Fren bakim ve hidrolik servisi", "+905551230007", "Bursa", "Osmangazi", "fren"},
	{"Aydın Oto Klima", "Klima gazi dolumu ve bakim", "+905551230008", "Bursa", "Nilufer", "klima"},
	{"Özkan Motor Yenileme", "Motor rektefiyesi ve revizyon", "+905551230009", "Adana", "Seyhan", "motor"},
	{"Akın Oto Yıkama & Detailing", "Detayli ic dis temizlik", "+905551230010", "Antalya", "Muratpasa", "detailing"},
}

var comments = []string{
	"Hizli ve temiz iscilik, tavsiye ederim.",
	"Fiyatlar biraz yuksek ama isciligi cok iyi.",
	"Randevu saatine birebir uydular.",
	"Parca degisimini yanimda yaptilar, guven verici.",
	"Ustalar ilgili, aracimi zamaninda teslim ettiler.",
	"Ikinci gelisim, yine memnun kaldim.",
	"Sorunu ilk seferde cozemediler ama telafi ettiler.",
	"Beklettiler fakat sonuc basarili.",
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("POSTGRES_USER", "otosanayi"),
		getEnv("POSTGRES_PASSWORD", "otosanayi_secret"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB_NAME", "otosanayi"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Fake user pool. One review per user per week is enforced by the API,
	// so spread review timestamps over the past year.
	userIDs := make([]string, 40)
	for i := range userIDs {
		userIDs[i] = uuid.New().String()
	}

	var totalReviews int
	for _, b := range businesses {
		businessID := uuid.New().String()
		_, err := pool.Exec(ctx, `
			INSERT INTO businesses (id, name, slug, description, phone, city, district, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (slug) DO NOTHING`,
			businessID, b.name, slug.Generate(b.name), b.description, b.phone, b.city, b.district, b.category,
		)
		if err != nil {
			return fmt.Errorf("insert business %q: %w", b.name, err)
		}

		reviewCount := 3 + rng.Intn(10)
		for i := 0; i < reviewCount; i++ {
			createdAt := time.Now().UTC().Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
			_, err := pool.Exec(ctx, `
				INSERT INTO reviews (id, business_id, user_id, rating, comment, likes, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
				uuid.New().String(),
				businessID,
				userIDs[rng.Intn(len(userIDs))],
				1+rng.Intn(5),
				comments[rng.Intn(len(comments))],
				rng.Intn(20),
				createdAt,
			)
			if err != nil {
				return fmt.Errorf("insert review for %q: %w", b.name, err)
			}
		}
		totalReviews += reviewCount

		// Refresh the denormalized aggregate the same way the API does.
		_, err = pool.Exec(ctx, `
			UPDATE businesses SET
				rating = sub.avg_rating,
				review_count = sub.cnt,
				updated_at = NOW()
			FROM (
				SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS cnt
				FROM reviews WHERE business_id = $1
			) sub
			WHERE id = $1`,
			businessID,
		)
		if err != nil {
			return fmt.Errorf("refresh aggregate for %q: %w", b.name, err)
		}

		log.Printf("seeded %q with %d reviews", b.name, reviewCount)
	}

	log.Printf("done: %d businesses, %d reviews", len(businesses), totalReviews)
	return nil
}
