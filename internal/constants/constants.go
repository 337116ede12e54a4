package constants

// 订单状态常量
const (
	OrderStatusDraft     = "DRAFT"
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// 履约状态常量
const (
	FulfillmentPending     = "PENDING_FULFILLMENT"
	FulfillmentStockSynced = "STOCK_SYNCED"
	FulfillmentCodeIssued  = "CODE_ISSUED"
	FulfillmentComplete    = "COMPLETE"
	FulfillmentPartial     = "PARTIAL"
	FulfillmentFailed      = "FAILED"
)

// 计划类型常量
const (
	PlanTypeOrderNow  = "ORDER_NOW"
	PlanTypeStartPlan = "START_PLAN"
	PlanTypeSmartGrab = "SMART_GRAB"
)

// 计划子类型常量
const (
	PlanSubTypeNone    = "NONE"
	PlanSubTypeWeekly  = "WEEKLY"
	PlanSubTypeMonthly = "MONTHLY"
)

// 取货时间类型常量
const (
	PickupTypeToday   = "TODAY"
	PickupTypeIn24Hrs = "IN_24_HOURS"
)

// 订单进度步骤常量
const (
	OrderStepPlaced    = "PLACED"
	OrderStepPreparing = "PREPARING"
	OrderStepReady     = "READY"
	OrderStepPickedUp  = "PICKED_UP"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskOrderFulfill       = "vending:order:fulfill"
	TaskOrderTimeoutCancel = "vending:order:timeout_cancel"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "dosta"
)

// 售货机网关常量
const (
	VendingResultSuccess = "200" // 网关业务成功码
	VendingHeatServiceID = "15"  // 加热服务编号
	QRCodeBaseURL        = "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data="
)
