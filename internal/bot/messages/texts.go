package messages

import (
	"FleetFuel/internal/core/domain"
	"fmt"
	"strings"
)

// Registration
const (
	TextWelcome          = "Добро пожаловать! Введите ваш 📞номер телефона в формате +7XXXXXXXXXX:"
	TextShareContact     = "📱 Отправить мой номер"
	TextBadPhone         = "Пожалуйста, введите корректный 📞номер телефона в формате +7XXXXXXXXXX."
	TextAskName          = "Теперь введите ваше 👤ФИО:"
	TextBadName          = "ФИО не может быть пустым. Введите ваше 👤ФИО:"
	TextAwaitApproval    = "Ожидайте подтверждения от администратора."
	TextAlreadySubmitted = "⏳ Ваша заявка на подтверждение уже отправлена. Ожидайте ответа администратора."
	TextApproved         = "✅ Ваш вход подтвержден! Добро пожаловать!"
	TextRejected         = "🚫 Ваш доступ был отклонен администратором."
	TextBadUserID        = "❌ Ошибка: Неверный формат ID."
	TextUserMissing      = "❌ Пользователь не найден в базе."
)

// Driver flows
const (
	TextMainMenu           = "🏠 Главное меню"
	TextVehicleList        = "📋 Список машин:"
	TextFleetEmpty         = "🚗 Список машин пуст."
	TextVehicleNotFound    = "❌ Информация не найдена"
	TextChooseStockVehicle = "📋 Выберите машину для внесения физ. остатка:"
	TextBadStock           = "❌ Введите корректное число литров."
	TextUserDataMissing    = "❌ Ваши данные не найдены в системе."
	TextReminder           = "🚨 Не забудьте внести физический остаток топлива после окончания рейса!"
)

// Administrator flows
const (
	TextAdminPanel            = "🔧 Панель администратора:"
	TextNoAccess              = "⛔️ У вас нет доступа к этой функции."
	TextApprovalRequired      = "⛔️ Доступ откроется после подтверждения администратором. Нажмите /start."
	TextAdminChooseVehicle    = "Выберите машину для изменения остатка:"
	TextAdminBadStock         = "❌ Введите корректное числовое значение остатка."
	TextAdminVehicleNotFound  = "❌ Машина не найдена."
	TextChooseRecipient       = "Выберите пользователя для отправки уведомления:"
	TextNoRecipients          = "Нет пользователей для отправки уведомлений."
	TextRecipientNotFound     = "Ошибка: Пользователь не найден."
	TextEmptyBroadcast        = "Сообщение не может быть пустым. Введите текст:"
	TextAdminsRefreshFailed   = "❌ Не удалось обновить список администраторов."
	TextSummaryNoData         = "информации нет"
	TextVehicleStockMissing   = "Нет данных"
	TextVehicleUpdatedMissing = "Неизвестно"
)

// Generic
const (
	TextCancelled      = "Действие отменено."
	TextActionNotFound = "❌ Действие не найдено"
	TextUnknownInput   = "Не понимаю 🤔 Нажмите /start, чтобы открыть меню."
	TextGenericError   = "😔 Что-то пошло не так. Попробуйте ещё раз позже."
)

// ApprovalRequest is the prompt every administrator gets for a new applicant.
func ApprovalRequest(u *domain.User) string {
	return fmt.Sprintf(
		"🚗 Новый запрос на авторизацию 🚗\n\n"+
			"📞 Телефон: %s\n"+
			"👤 ФИО: %s\n"+
			"🆔 Telegram ID: %d\n"+
			"⏳ Дата регистрации: %s\n\n"+
			"Подтвердить?",
		u.Phone, u.FullName, u.TelegramID, u.RegisteredAt.Format(domain.TimestampLayout),
	)
}

func UserApproved(telegramID int64) string {
	return fmt.Sprintf("✅ Пользователь %d подтвержден.", telegramID)
}

func UserRejected(telegramID int64) string {
	return fmt.Sprintf("🚫 Пользователь %d отклонен и заблокирован.", telegramID)
}

func UserNotFound(telegramID int64) string {
	return fmt.Sprintf("❌ Пользователь с Telegram ID %d не найден.", telegramID)
}

func VehicleInfo(v *domain.Vehicle) string {
	stock, updated := v.Stock, v.UpdatedAt
	if stock == "" {
		stock = TextVehicleStockMissing
	}
	if updated == "" {
		updated = TextVehicleUpdatedMissing
	}
	return fmt.Sprintf("🚙 Машина: %s\n⛽️ Остаток: %s л\n📅 Последнее изменение: %s", v.ID, stock, updated)
}

func StockPrompt(vehicleID string) string {
	return fmt.Sprintf("🚙 Вы выбрали машину %s.\nВведите физ. остаток топлива в баке (л):", vehicleID)
}

func StockSaved(r *domain.ChangeRecord) string {
	return fmt.Sprintf(
		"✅ Данные записаны:\n👤 ФИО: %s\n📞 Телефон: %s\n🚙 Машина: %s\n⛽️ Остаток: %d л",
		r.FullName, r.Phone, r.VehicleID, r.Stock,
	)
}

// StockTooLarge answers a value above the accepted maximum.
func StockTooLarge(max int) string {
	return fmt.Sprintf("❌ Слишком большое значение. Введите не более %d л.", max)
}

func AdminStockPrompt(vehicleID string) string {
	return fmt.Sprintf("Введите новый остаток для машины %s:", vehicleID)
}

func AdminStockUpdated(v *domain.Vehicle) string {
	return fmt.Sprintf("✅ Остаток для машины %s обновлен на: %s л", v.ID, v.Stock)
}

// DailySummary renders one line per vehicle under a dated header.
func DailySummary(day string, lines []domain.SummaryLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Информация по машинам за %s:", day)
	for _, l := range lines {
		if l.HasData {
			fmt.Fprintf(&b, "\n%s: %s, %s л", l.VehicleID, l.FullName, l.Stock)
		} else {
			fmt.Fprintf(&b, "\n%s: %s", l.VehicleID, TextSummaryNoData)
		}
	}
	return b.String()
}

func ComposePrompt(name string) string {
	return fmt.Sprintf("Введите сообщение, которое хотите отправить пользователю %s:", name)
}

func MessageSent(name string) string {
	return fmt.Sprintf("Сообщение успешно отправлено пользователю %s.", name)
}

func DeliveryFailed(err error) string {
	return fmt.Sprintf("Ошибка при отправке сообщения: %v", err)
}

func AdminsRefreshed(n int) string {
	return fmt.Sprintf("🔄 Список администраторов обновлён. Администраторов: %d", n)
}
