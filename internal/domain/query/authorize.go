package query

// AccessFlags 能力标志位集合，可自由组合。
// Permission 命中时短路放行；未命中时降级到其余标志；
// 无任何可用子谓词时返回原过滤器（上游字段裁剪已兜底，刻意宽松）。
type AccessFlags uint8

const (
	AccessNone        AccessFlags = 0
	AccessOwner       AccessFlags = 1 << 0
	AccessPermission  AccessFlags = 1 << 1
	AccessAffiliation AccessFlags = 1 << 2
)

// Has 检查是否包含指定标志
func (f AccessFlags) Has(flag AccessFlags) bool {
	return f&flag != 0
}

// Caller 请求方身份上下文
type Caller struct {
	ID         string
	Role       string
	ShelterIDs []string
}

// Scope 实体相关的授权作用域：权限名与谓词列
type Scope struct {
	Permission        string
	OwnerColumn       string
	AffiliationColumn string
}

// PermissionChecker 权限判定接口，由声明提供方实现
type PermissionChecker interface {
	Allows(caller *Caller, permission string) bool
}

// PermissionCheckerFunc 函数适配器
type PermissionCheckerFunc func(caller *Caller, permission string) bool

// Allows 实现 PermissionChecker
func (f PermissionCheckerFunc) Allows(caller *Caller, permission string) bool {
	return f(caller, permission)
}

// Resolver 授权解析器：将能力标志组合成布尔谓词并与基础过滤器合并
type Resolver struct {
	perms PermissionChecker
}

// NewResolver 创建授权解析器
func NewResolver(perms PermissionChecker) *Resolver {
	return &Resolver{perms: perms}
}

// Apply 按能力标志收紧基础过滤器。
// Permission 命中 → 原样返回；Owner/Affiliation 子谓词 OR 相连后与基础过滤器 AND；
// 未收集到任何子谓词 → 原样返回（见包文档中的宽松回退约定）。
func (r *Resolver) Apply(flags AccessFlags, base Filter, caller *Caller, scope Scope) Filter {
	if flags == AccessNone || caller == nil {
		return base
	}

	if flags.Has(AccessPermission) && scope.Permission != "" {
		if r.perms != nil && r.perms.Allows(caller, scope.Permission) {
			return base
		}
		// 权限未命中：降级到其余标志，而不是直接拒绝
	}

	var subs []Filter
	if flags.Has(AccessOwner) && scope.OwnerColumn != "" && caller.ID != "" {
		subs = append(subs, Eq(scope.OwnerColumn, caller.ID))
	}
	if flags.Has(AccessAffiliation) && scope.AffiliationColumn != "" && len(caller.ShelterIDs) > 0 {
		subs = append(subs, In(scope.AffiliationColumn, caller.ShelterIDs))
	}

	if len(subs) == 0 {
		return base
	}

	restriction := Filter(Or(subs))
	if len(subs) == 1 {
		restriction = subs[0]
	}
	return Merge(base, restriction)
}
