/*
*
  - 数据库迁移工具
  - @description: 数据库模型迁移和测试数据初始化工具
  - @usage: go run main.go -env=test -seed=true -drop=true
    -drop
    是否先删除表（危险操作）
    -env string
    环境标识 (test, dev, prod) (default "test")
    -seed
    是否填充测试数据 (default true)
    -verbose
    是否显示详细日志

示例:
main.exe -env=test -seed=true    # 测试环境迁移并填充数据
main.exe -env=prod -seed=false   # 生产环境仅迁移表结构
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"adminboard/internal/config"
	changelogmodel "adminboard/internal/model/changelog"
	costmodel "adminboard/internal/model/cost"
	edumodel "adminboard/internal/model/education"
	hwmodel "adminboard/internal/model/hardware"
	inspmodel "adminboard/internal/model/inspection"
	partnermodel "adminboard/internal/model/partner"
	salesmodel "adminboard/internal/model/sales"
	"adminboard/internal/model/system"
	authpkg "adminboard/internal/pkg/auth"
	"adminboard/internal/pkg/database"
	"adminboard/internal/pkg/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MigrateOptions 迁移选项配置
type MigrateOptions struct {
	Environment string // 环境标识: test, dev, prod
	SeedData    bool   // 是否填充测试数据
	DropFirst   bool   // 是否先删除表（危险操作）
	Verbose     bool   // 是否显示详细日志
}

// DataSeeder 测试数据填充器
type DataSeeder struct {
	db  *gorm.DB
	env string
	log *logger.LoggerManager
}

func main() {
	// 解析命令行参数
	opts := parseFlags()

	// 加载配置
	cfg, err := config.LoadConfig("", opts.Environment)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 初始化日志管理器
	logManager, err := logger.InitLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	logManager.GetLogger().WithFields(logrus.Fields{
		"operation":   "database_migration",
		"environment": opts.Environment,
		"seed_data":   opts.SeedData,
		"drop_first":  opts.DropFirst,
	}).Info("开始数据库迁移")

	// 初始化数据库连接
	db, err := database.NewMySQLConnection(&cfg.Database.MySQL)
	if err != nil {
		logManager.GetLogger().WithField("error", err.Error()).Fatal("数据库连接失败")
	}

	// 执行迁移
	if err := performMigration(db, opts, logManager); err != nil {
		logManager.GetLogger().WithField("error", err.Error()).Fatal("数据库迁移失败")
	}

	logManager.GetLogger().Info("数据库迁移完成")
}

// parseFlags 解析命令行参数
func parseFlags() *MigrateOptions {
	opts := &MigrateOptions{}

	flag.StringVar(&opts.Environment, "env", "test", "环境标识 (test, dev, prod)")
	flag.BoolVar(&opts.SeedData, "seed", true, "是否填充测试数据")
	flag.BoolVar(&opts.DropFirst, "drop", false, "是否先删除表（危险操作）")
	flag.BoolVar(&opts.Verbose, "verbose", false, "是否显示详细日志")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "AdminBoard 数据库迁移工具\n\n")
		fmt.Fprintf(os.Stderr, "用法: %s [选项]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "选项:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n示例:\n")
		fmt.Fprintf(os.Stderr, "  %s -env=test -seed=true    # 测试环境迁移并填充数据\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -env=prod -seed=false   # 生产环境仅迁移表结构\n", os.Args[0])
	}

	flag.Parse()
	return opts
}

// performMigration 执行数据库迁移
func performMigration(db *gorm.DB, opts *MigrateOptions, logManager *logger.LoggerManager) error {
	// 1. 删除表（如果指定）
	if opts.DropFirst {
		if err := dropTables(db, logManager); err != nil {
			return fmt.Errorf("删除表失败: %w", err)
		}
	}

	// 2. 执行模型迁移
	if err := migrateModels(db, logManager); err != nil {
		return fmt.Errorf("模型迁移失败: %w", err)
	}

	// 3. 填充测试数据（如果指定）
	if opts.SeedData {
		seeder := NewDataSeeder(db, opts.Environment, logManager)
		if err := seeder.SeedAll(); err != nil {
			return fmt.Errorf("数据填充失败: %w", err)
		}
	}

	return nil
}

// allModels 返回全部需要迁移的模型（按依赖关系排序）
func allModels() []interface{} {
	return []interface{}{
		// 系统模块
		&system.User{},

		// 变更日志
		&changelogmodel.ChangeLogEntry{},

		// 费用管理
		&costmodel.CostRecord{},
		&costmodel.CostLineItem{},
		&costmodel.CostComment{},
		&costmodel.CostAttachment{},

		// 客户保安点检
		&inspmodel.Inspection{},
		&inspmodel.ChecklistEvaluation{},
		&inspmodel.OPLItem{},

		// 教育管理
		&edumodel.EducationRecord{},
		&edumodel.EducationAttendee{},

		// 硬件资产
		&hwmodel.HardwareAsset{},

		// 协力公司保安监查
		&partnermodel.PartnerAudit{},
		&partnermodel.ChecklistEvaluation{},
		&partnermodel.OPLItem{},

		// 销售管理
		&salesmodel.SalesRecord{},
	}
}

// dropTables 删除所有表
// 危险操作，仅用于开发环境重置
func dropTables(db *gorm.DB, logManager *logger.LoggerManager) error {
	logManager.GetLogger().Warn("开始删除数据库表")

	models := allModels()
	// 子表在前，逆序删除即可满足外键依赖
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			logManager.GetLogger().WithFields(logrus.Fields{
				"model": fmt.Sprintf("%T", models[i]),
				"error": err.Error(),
			}).Error("删除表失败")
		}
	}

	return nil
}

// migrateModels 执行模型迁移
func migrateModels(db *gorm.DB, loggerMgr *logger.LoggerManager) error {
	loggerMgr.GetLogger().Info("开始执行模型迁移...")

	for _, model := range allModels() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("迁移模型 %T 失败: %w", model, err)
		}
		loggerMgr.GetLogger().WithField("model", fmt.Sprintf("%T", model)).Info("模型迁移成功")
	}

	loggerMgr.GetLogger().Info("所有模型迁移完成")
	return nil
}

// NewDataSeeder 创建数据填充器
func NewDataSeeder(db *gorm.DB, env string, logManager *logger.LoggerManager) *DataSeeder {
	return &DataSeeder{
		db:  db,
		env: env,
		log: logManager,
	}
}

// SeedAll 填充所有测试数据
func (s *DataSeeder) SeedAll() error {
	s.log.GetLogger().WithFields(logrus.Fields{
		"operation": "seed_data",
		"env":       s.env,
	}).Info("开始填充测试数据")

	// 按依赖关系顺序填充数据
	seedFunctions := []struct {
		name string
		fn   func() error
	}{
		{"系统账号", s.seedSystemData},
		{"业务示例数据", s.seedModuleData},
	}

	for _, seed := range seedFunctions {
		s.log.GetLogger().WithField("module", seed.name).Info("填充数据模块")
		if err := seed.fn(); err != nil {
			return fmt.Errorf("填充%s失败: %w", seed.name, err)
		}
	}

	s.log.GetLogger().Info("测试数据填充完成")
	return nil
}

// seedSystemData 填充系统账号数据
func (s *DataSeeder) seedSystemData() error {
	passwordManager := authpkg.NewPasswordManager(nil)

	// 默认管理员账号，密码: admin123
	adminHash, err := passwordManager.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("生成管理员密码哈希失败: %w", err)
	}

	users := []system.User{
		{
			Username:   "admin",
			Email:      "admin@adminboard.local",
			Password:   adminHash,
			Name:       "관리자",
			Team:       "경영지원팀",
			Department: "경영지원",
			Status:     system.UserStatusEnabled,
		},
	}

	// 测试环境额外创建一个普通账号，密码: user1234
	if s.env == "test" {
		userHash, err := passwordManager.HashPassword("user1234")
		if err != nil {
			return fmt.Errorf("生成测试账号密码哈希失败: %w", err)
		}
		users = append(users, system.User{
			Username:   "hong.gildong",
			Email:      "hong.gildong@adminboard.local",
			Password:   userHash,
			Name:       "홍길동",
			Team:       "보안1팀",
			Department: "정보보안",
			Status:     system.UserStatusEnabled,
		})
	}

	for _, user := range users {
		if err := s.db.Where("username = ?", user.Username).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("创建用户失败: %w", err)
		}
	}

	return nil
}

// seedModuleData 填充各业务模块示例数据（仅test环境）
func (s *DataSeeder) seedModuleData() error {
	if s.env != "test" {
		s.log.GetLogger().Info("非test环境，跳过业务示例数据填充")
		return nil
	}

	now := time.Now()
	yy := now.Year() % 100
	date := func(month, day int) *time.Time {
		t := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.Local)
		return &t
	}

	// 费用记录
	costs := []costmodel.CostRecord{
		{
			Code: fmt.Sprintf("%s-%02d-001", costmodel.CodePrefix, yy), Title: "보안솔루션 연간 라이선스",
			CostType: "라이선스", Team: "보안1팀", Assignee: "홍길동", Amount: 12000000,
			Status: changelogmodel.StatusInProgress, RegistrationDate: now, StartDate: date(1, 2), CompletionDate: date(12, 31),
		},
		{
			Code: fmt.Sprintf("%s-%02d-002", costmodel.CodePrefix, yy), Title: "침해대응 훈련 외주비",
			CostType: "용역비", Team: "보안2팀", Assignee: "김철수", Amount: 5500000,
			Status: changelogmodel.StatusWaiting, RegistrationDate: now, StartDate: date(3, 1), CompletionDate: date(4, 30),
		},
	}
	for _, record := range costs {
		if err := s.db.Where("code = ?", record.Code).FirstOrCreate(&record).Error; err != nil {
			return fmt.Errorf("创建费用记录失败: %w", err)
		}
	}

	// 硬件资产(看板各列至少一条)
	assets := []hwmodel.HardwareAsset{
		{
			Code: fmt.Sprintf("%s-%02d-001", hwmodel.CodePrefix, yy), Name: "방화벽 장비",
			ModelName: "PA-460", SerialNumber: "FW20260001", Owner: "홍길동", Team: "보안1팀",
			Location: "본사 전산실", Status: changelogmodel.StatusInProgress, RegistrationDate: now, PurchaseDate: date(2, 10),
		},
		{
			Code: fmt.Sprintf("%s-%02d-002", hwmodel.CodePrefix, yy), Name: "보안관제 모니터",
			ModelName: "U2723QE", SerialNumber: "MN20260002", Owner: "김철수", Team: "보안2팀",
			Location: "관제센터", Status: changelogmodel.StatusWaiting, RegistrationDate: now, PurchaseDate: date(1, 20),
		},
	}
	for _, asset := range assets {
		if err := s.db.Where("code = ?", asset.Code).FirstOrCreate(&asset).Error; err != nil {
			return fmt.Errorf("创建硬件资产失败: %w", err)
		}
	}

	// 销售记录(跨月份,供月度汇总报表验证)
	salesRecords := []salesmodel.SalesRecord{
		{
			Code: fmt.Sprintf("%s-%02d-001", salesmodel.CodePrefix, yy), Client: "한빛전자",
			Item: "보안컨설팅", Team: "영업1팀", Assignee: "이영희", Amount: 30000000, Margin: 9000000,
			Status: changelogmodel.StatusDone, RegistrationDate: now, SaleDate: date(1, 15),
		},
		{
			Code: fmt.Sprintf("%s-%02d-002", salesmodel.CodePrefix, yy), Client: "대한물산",
			Item: "모의해킹", Team: "영업1팀", Assignee: "이영희", Amount: 18000000, Margin: 5400000,
			Status: changelogmodel.StatusInProgress, RegistrationDate: now, SaleDate: date(3, 5),
		},
	}
	for _, record := range salesRecords {
		if err := s.db.Where("code = ?", record.Code).FirstOrCreate(&record).Error; err != nil {
			return fmt.Errorf("创建销售记录失败: %w", err)
		}
	}

	// 客户保安点检(含OPL子编号示例)
	inspection := inspmodel.Inspection{
		Code: fmt.Sprintf("%s-%02d-001", inspmodel.CodePrefix, yy), Customer: "한빛전자",
		Inspector: "홍길동", Team: "보안1팀", Round: 1,
		Status: changelogmodel.StatusInProgress, RegistrationDate: now, InspectionDate: date(2, 20),
		Summary: "상반기 정기 보안점검",
	}
	if err := s.db.Where("code = ?", inspection.Code).FirstOrCreate(&inspection).Error; err != nil {
		return fmt.Errorf("创建点检记录失败: %w", err)
	}
	oplItems := []inspmodel.OPLItem{
		{RecordID: inspection.ID, Code: inspection.Code + "-01", Content: "출입통제 로그 보존기간 연장", Owner: "한빛전자 보안담당", DueDate: date(3, 31)},
	}
	for _, item := range oplItems {
		if err := s.db.Where("code = ?", item.Code).FirstOrCreate(&item).Error; err != nil {
			return fmt.Errorf("创建OPL事项失败: %w", err)
		}
	}

	// 教育记录
	education := edumodel.EducationRecord{
		Code: fmt.Sprintf("%s-%02d-001", edumodel.CodePrefix, yy), Course: "정보보호 기본교육",
		Instructor: "김강사", Team: "전사", Status: changelogmodel.StatusDone,
		RegistrationDate: now, EducationDate: date(2, 5), DurationHours: 2,
	}
	if err := s.db.Where("code = ?", education.Code).FirstOrCreate(&education).Error; err != nil {
		return fmt.Errorf("创建教育记录失败: %w", err)
	}

	// 协力公司保安监查
	audit := partnermodel.PartnerAudit{
		Code: fmt.Sprintf("%s-%02d-001", partnermodel.CodePrefix, yy), PartnerCompany: "협성테크",
		Auditor: "김철수", Team: "보안2팀", Grade: "B",
		Status: changelogmodel.StatusWaiting, RegistrationDate: now, AuditDate: date(4, 10),
	}
	if err := s.db.Where("code = ?", audit.Code).FirstOrCreate(&audit).Error; err != nil {
		return fmt.Errorf("创建监查记录失败: %w", err)
	}

	return nil
}
