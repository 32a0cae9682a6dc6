package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys are the English labels. They are printf formats, so a
// literal percent sign is written %%.
const (
	MsgTitle              = "Presale Admin"
	MsgSignIn             = "Sign in"
	MsgSignOut            = "Sign out"
	MsgIdentifier         = "Identifier"
	MsgPassword           = "Password"
	MsgInvalidCredentials = "Invalid credentials"
	MsgDashboard          = "Dashboard"
	MsgTokenPrice         = "TBC price (USD)"
	MsgSave               = "Save"
	MsgBuyerCommission    = "Buyer Commission"
	MsgBuyerVoucher       = "Buyer Voucher"
	MsgAgencyVoucher      = "Agency Voucher"
	MsgPackage            = "Package"
	MsgAmountTBC          = "Amount (TBC)"
	MsgValueUSD           = "Value (USD)"
	MsgStandardPercent    = "Standard %%"
	MsgStandardTBC        = "Standard (TBC)"
	MsgStandardUSD        = "Standard (USD)"
	MsgDiscountPercent    = "Discount %%"
	MsgDiscountTBC        = "Discount (TBC)"
	MsgDiscountUSD        = "Discount (USD)"
	MsgDiscountPerPackage = "Discount per package (USD)"
	MsgExtraPercent       = "Extra %%"
	MsgTotalPercent       = "Total %%"
	MsgTotalUSD           = "Total (USD)"
	MsgFinalPercent       = "Final %%"
	MsgFinalUSD           = "Final (USD)"
	MsgVoucherPercent     = "Voucher %%"
	MsgEventBonus         = "Event bonus %%"
	MsgAddPackage         = "Add package"
	MsgRemovePackage      = "Remove last package"
	MsgExportCSV          = "Export CSV"
	MsgEvents             = "Events"
	MsgName               = "Name"
	MsgType               = "Type"
	MsgPercent            = "Percent"
	MsgPresaleEvents      = "Presale events"
	MsgLockedTBCFrom      = "Locked TBC from"
	MsgLockedTBCTo        = "Locked TBC to"
	MsgLockedRewardFrom   = "Locked reward from"
	MsgLockedRewardTo     = "Locked reward to"
)

var translations = map[language.Tag]map[string]string{
	language.Vietnamese: {
		MsgTitle:              "Quản trị Presale",
		MsgSignIn:             "Đăng nhập",
		MsgSignOut:            "Đăng xuất",
		MsgIdentifier:         "Tên đăng nhập",
		MsgPassword:           "Mật khẩu",
		MsgInvalidCredentials: "Thông tin đăng nhập không hợp lệ",
		MsgDashboard:          "Bảng điều khiển",
		MsgTokenPrice:         "Giá TBC (USD)",
		MsgSave:               "Lưu",
		MsgBuyerCommission:    "Hoa hồng người mua",
		MsgBuyerVoucher:       "Voucher người mua",
		MsgAgencyVoucher:      "Voucher đại lý",
		MsgPackage:            "Gói",
		MsgAmountTBC:          "Số lượng (TBC)",
		MsgValueUSD:           "Giá trị (USD)",
		MsgStandardPercent:    "Tiêu chuẩn %%",
		MsgStandardTBC:        "Tiêu chuẩn (TBC)",
		MsgStandardUSD:        "Tiêu chuẩn (USD)",
		MsgDiscountPercent:    "Chiết khấu %%",
		MsgDiscountTBC:        "Chiết khấu (TBC)",
		MsgDiscountUSD:        "Chiết khấu (USD)",
		MsgDiscountPerPackage: "Chiết khấu mỗi gói (USD)",
		MsgExtraPercent:       "Thêm %%",
		MsgTotalPercent:       "Tổng %%",
		MsgTotalUSD:           "Tổng (USD)",
		MsgFinalPercent:       "Cuối cùng %%",
		MsgFinalUSD:           "Cuối cùng (USD)",
		MsgVoucherPercent:     "Voucher %%",
		MsgEventBonus:         "Thưởng sự kiện %%",
		MsgAddPackage:         "Thêm gói",
		MsgRemovePackage:      "Xóa gói cuối",
		MsgExportCSV:          "Xuất CSV",
		MsgEvents:             "Sự kiện",
		MsgName:               "Tên",
		MsgType:               "Loại",
		MsgPercent:            "Phần trăm",
		MsgPresaleEvents:      "Sự kiện presale",
		MsgLockedTBCFrom:      "Khóa TBC từ",
		MsgLockedTBCTo:        "Khóa TBC đến",
		MsgLockedRewardFrom:   "Khóa thưởng từ",
		MsgLockedRewardTo:     "Khóa thưởng đến",
	},
	language.SimplifiedChinese: {
		MsgTitle:              "预售管理",
		MsgSignIn:             "登录",
		MsgSignOut:            "退出",
		MsgIdentifier:         "账号",
		MsgPassword:           "密码",
		MsgInvalidCredentials: "账号或密码错误",
		MsgDashboard:          "控制台",
		MsgTokenPrice:         "TBC 价格 (USD)",
		MsgSave:               "保存",
		MsgBuyerCommission:    "买家佣金",
		MsgBuyerVoucher:       "买家代金券",
		MsgAgencyVoucher:      "代理代金券",
		MsgPackage:            "套餐",
		MsgAmountTBC:          "数量 (TBC)",
		MsgValueUSD:           "价值 (USD)",
		MsgStandardPercent:    "标准 %%",
		MsgStandardTBC:        "标准 (TBC)",
		MsgStandardUSD:        "标准 (USD)",
		MsgDiscountPercent:    "折扣 %%",
		MsgDiscountTBC:        "折扣 (TBC)",
		MsgDiscountUSD:        "折扣 (USD)",
		MsgDiscountPerPackage: "每套餐折扣 (USD)",
		MsgExtraPercent:       "额外 %%",
		MsgTotalPercent:       "合计 %%",
		MsgTotalUSD:           "合计 (USD)",
		MsgFinalPercent:       "最终 %%",
		MsgFinalUSD:           "最终 (USD)",
		MsgVoucherPercent:     "代金券 %%",
		MsgEventBonus:         "活动奖励 %%",
		MsgAddPackage:         "添加套餐",
		MsgRemovePackage:      "删除最后一个套餐",
		MsgExportCSV:          "导出 CSV",
		MsgEvents:             "活动",
		MsgName:               "名称",
		MsgType:               "类型",
		MsgPercent:            "百分比",
		MsgPresaleEvents:      "预售活动",
		MsgLockedTBCFrom:      "TBC 锁定开始",
		MsgLockedTBCTo:        "TBC 锁定结束",
		MsgLockedRewardFrom:   "奖励锁定开始",
		MsgLockedRewardTo:     "奖励锁定结束",
	},
	language.TraditionalChinese: {
		MsgTitle:              "預售管理",
		MsgSignIn:             "登入",
		MsgSignOut:            "登出",
		MsgIdentifier:         "帳號",
		MsgPassword:           "密碼",
		MsgInvalidCredentials: "帳號或密碼錯誤",
		MsgDashboard:          "控制台",
		MsgTokenPrice:         "TBC 價格 (USD)",
		MsgSave:               "儲存",
		MsgBuyerCommission:    "買家佣金",
		MsgBuyerVoucher:       "買家代金券",
		MsgAgencyVoucher:      "代理代金券",
		MsgPackage:            "套餐",
		MsgAmountTBC:          "數量 (TBC)",
		MsgValueUSD:           "價值 (USD)",
		MsgStandardPercent:    "標準 %%",
		MsgStandardTBC:        "標準 (TBC)",
		MsgStandardUSD:        "標準 (USD)",
		MsgDiscountPercent:    "折扣 %%",
		MsgDiscountTBC:        "折扣 (TBC)",
		MsgDiscountUSD:        "折扣 (USD)",
		MsgDiscountPerPackage: "每套餐折扣 (USD)",
		MsgExtraPercent:       "額外 %%",
		MsgTotalPercent:       "合計 %%",
		MsgTotalUSD:           "合計 (USD)",
		MsgFinalPercent:       "最終 %%",
		MsgFinalUSD:           "最終 (USD)",
		MsgVoucherPercent:     "代金券 %%",
		MsgEventBonus:         "活動獎勵 %%",
		MsgAddPackage:         "新增套餐",
		MsgRemovePackage:      "刪除最後一個套餐",
		MsgExportCSV:          "匯出 CSV",
		MsgEvents:             "活動",
		MsgName:               "名稱",
		MsgType:               "類型",
		MsgPercent:            "百分比",
		MsgPresaleEvents:      "預售活動",
		MsgLockedTBCFrom:      "TBC 鎖定開始",
		MsgLockedTBCTo:        "TBC 鎖定結束",
		MsgLockedRewardFrom:   "獎勵鎖定開始",
		MsgLockedRewardTo:     "獎勵鎖定結束",
	},
}

func init() {
	for tag, messages := range translations {
		for key, msg := range messages {
			_ = message.SetString(tag, key, msg)
		}
	}
}

// T translates key for l. Unknown keys are returned unchanged.
func (l Locale) T(key string) string {
	return l.Printer().Sprintf(key)
}
