package razgif

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/klauspost/compress/zstd"
)

type DB redis.Client

func NewDB(redisURL string) (*DB, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	db := redis.NewClient(opt)
	if err := db.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return (*DB)(db), nil
}

func (db *DB) LoadSessions() map[string][]byte {
	rooms, err := db.Keys(context.Background(), "*").Result()
	if err != nil {
		log.Println("Redis error:", err)
		return nil
	}
	results := make(map[string][]byte)
	for _, room := range rooms {
		blob, err := db.Get(context.Background(), room).Bytes()
		if err != nil {
			log.Println("Redis error:", err)
			continue
		}
		state, err := decompress(blob)
		if err != nil {
			log.Printf("[corrupt session blob: %s] %v", room, err)
			continue
		}
		results[room] = state
	}
	return results
}

func (db *DB) SaveSession(room string, state []byte, expiration time.Duration) {
	if err := db.Set(context.Background(), room, compress(state), expiration).Err(); err != nil {
		log.Println("Redis error:", err)
	}
}

// Session states hold encoded frame images, so they are compressed
// before they hit Redis.
func compress(data []byte) []byte {
	enc, _ := zstd.NewWriter(nil)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
