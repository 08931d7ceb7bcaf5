package analytics

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrCacheLocked otro proceso está recalculando la misma clave.
var ErrCacheLocked = errors.New("cache: clave bloqueada por otro proceso")

// Cache caché de resultados serializados. Get devuelve (nil, nil) si no hay entrada.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Lock toma un lock distribuido sobre key; ErrCacheLocked si ya está tomado.
	Lock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context), err error)
}

// SalesExporter escribe el listado de ventas en un formato de archivo.
type SalesExporter interface {
	ContentType() string
	Extension() string
	WriteSales(w io.Writer, rows []SaleRow) error
}
