package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos padrão de HTTP.

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// Campos padrão de negócio.

// OwnerID é o id da identidade autenticada dona dos registros.
func OwnerID(v string) zap.Field { return zap.String("owner_id", v) }

// UserID é o id numérico de um registro da tabela users.
func UserID(v int64) zap.Field { return zap.Int64("user_id", v) }

func Email(v string) zap.Field { return zap.String("email", v) }

// Op identifica a operação corrente (ex: "users.Create").
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer identifica a camada (controller, service, repository, middleware).
func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

func Count(v int) zap.Field { return zap.Int("count", v) }
