package appointment

import (
	"github.com/BECOF-Cons/becof-website-sub000/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.Querier

// activeSlotConstraint частичный уникальный индекс: одна активная запись на момент времени
const activeSlotConstraint = "appointments_active_slot_uidx"

// pgUniqueViolation код ошибки postgres unique_violation
const pgUniqueViolation = "23505"
