package constants

// Redis Key 统一格式: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 所有 Redis Key 的应用前缀
	AppPrefix = "app"

	// ResumeModulePrefix 简历模块
	ResumeModulePrefix = "resume"

	// EntityProfile 解析结果实体
	EntityProfile = "profile"

	// KeyResumeProfile 简历解析结果缓存 (STRING, JSON)
	// 格式: app:resume:profile:{extractorVersion}:{textMD5}
	KeyResumeProfile = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityProfile + ":%s:%s"
)
