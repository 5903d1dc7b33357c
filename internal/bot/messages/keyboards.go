package messages

import (
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"fmt"
	"strconv"
)

// Commands
const (
	CommandStart         = "start"
	CommandAdmin         = "admin"
	CommandCancel        = "cancel"
	CommandRefreshAdmins = "refresh_admins"
)

// Callback tags. Parameterised tags travel as "tag:param".
const (
	CallbackMainMenu = "main_menu"

	CallbackViewCars     = "view_cars"
	CallbackViewCarsPage = "view_cars_page"
	CallbackCarInfo      = "car_info"

	CallbackEnterStock     = "enter_physical_stock"
	CallbackEnterStockPage = "enter_physical_stock_page"
	CallbackSelectStockCar = "select_physical_car"

	CallbackConfirmUser = "confirm_user"
	CallbackBlockUser   = "block_user"

	CallbackAdminMenu            = "admin_menu"
	CallbackGetInfo              = "get_info"
	CallbackAdminUpdateStock     = "admin_update_stock"
	CallbackAdminUpdateStockPage = "admin_update_stock_page"
	CallbackAdminSelectCar       = "select_car"
	CallbackAdminNotify          = "admin_notify"
	CallbackSelectUser           = "select_user"
)

// Data joins a tag and its parameter.
func Data(tag, param string) string {
	return tag + ":" + param
}

// MainMenuKeyboard is the approved user's home screen.
func MainMenuKeyboard() [][]ports.Button {
	return [][]ports.Button{
		{{Text: "🚗 Посмотреть", Data: CallbackViewCars}},
		{{Text: "⛽️Внести физ. остаток", Data: CallbackEnterStock}},
	}
}

func AdminMenuKeyboard() [][]ports.Button {
	return [][]ports.Button{
		{{Text: "📋 Получить информацию", Data: CallbackGetInfo}},
		{{Text: "✏️ Внести остаток", Data: CallbackAdminUpdateStock}},
		{{Text: "📢 Уведомление", Data: CallbackAdminNotify}},
	}
}

func BackToMainMenuKeyboard() [][]ports.Button {
	return [][]ports.Button{
		{{Text: "🏠 Вернуться в главное меню", Data: CallbackMainMenu}},
	}
}

func BackToAdminMenuKeyboard() [][]ports.Button {
	return [][]ports.Button{
		{{Text: "Вернуться в админ-меню", Data: CallbackAdminMenu}},
	}
}

// ApprovalKeyboard carries the applicant's Telegram ID on both buttons.
func ApprovalKeyboard(telegramID int64) [][]ports.Button {
	id := strconv.FormatInt(telegramID, 10)
	return [][]ports.Button{
		{{Text: "✅ Подтвердить", Data: Data(CallbackConfirmUser, id)}},
		{{Text: "❌ Отклонить", Data: Data(CallbackBlockUser, id)}},
	}
}

// VehicleInfoKeyboard offers reporting stock for the shown vehicle.
func VehicleInfoKeyboard(vehicleID string) [][]ports.Button {
	return [][]ports.Button{
		{{Text: "⛽️ Внести физ. остаток", Data: Data(CallbackSelectStockCar, vehicleID)}},
		{{Text: "🔙 Назад к выбору машин", Data: CallbackViewCars}},
		{{Text: "🏠 Главное меню", Data: CallbackMainMenu}},
	}
}

// PageKeyboard describes the tags a vehicle page keyboard uses.
type PageKeyboard struct {
	SelectTag string // pressed vehicle -> SelectTag:<id>
	PageTag   string // arrows -> PageTag:<n>
	Back      ports.Button
}

var (
	ViewCarsPager = PageKeyboard{
		SelectTag: CallbackCarInfo,
		PageTag:   CallbackViewCarsPage,
		Back:      ports.Button{Text: "🏠 Вернуться в главное меню", Data: CallbackMainMenu},
	}
	StockPager = PageKeyboard{
		SelectTag: CallbackSelectStockCar,
		PageTag:   CallbackEnterStockPage,
		Back:      ports.Button{Text: "🏠 Вернуться в главное меню", Data: CallbackMainMenu},
	}
	AdminStockPager = PageKeyboard{
		SelectTag: CallbackAdminSelectCar,
		PageTag:   CallbackAdminUpdateStockPage,
		Back:      ports.Button{Text: "Вернуться в админ-меню", Data: CallbackAdminMenu},
	}
)

// Build lays out one vehicle per row, then the arrows that lead to existing
// pages only, then the back button.
func (k PageKeyboard) Build(page domain.VehiclePage) [][]ports.Button {
	rows := make([][]ports.Button, 0, len(page.Vehicles)+2)
	for _, v := range page.Vehicles {
		rows = append(rows, []ports.Button{{Text: "🚙 " + v.ID, Data: Data(k.SelectTag, v.ID)}})
	}

	var nav []ports.Button
	if page.HasPrev() {
		nav = append(nav, ports.Button{Text: "⬅️", Data: Data(k.PageTag, strconv.Itoa(page.Number-1))})
	}
	if page.HasNext() {
		nav = append(nav, ports.Button{Text: "➡️", Data: Data(k.PageTag, strconv.Itoa(page.Number+1))})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return append(rows, []ports.Button{k.Back})
}

// RecipientKeyboard lists users by full name for the notify flow.
func RecipientKeyboard(users []*domain.User) [][]ports.Button {
	rows := make([][]ports.Button, 0, len(users)+1)
	for _, u := range users {
		rows = append(rows, []ports.Button{{
			Text: u.FullName,
			Data: Data(CallbackSelectUser, fmt.Sprint(u.TelegramID)),
		}})
	}
	return append(rows, BackToAdminMenuKeyboard()...)
}
