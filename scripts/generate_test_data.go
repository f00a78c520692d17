package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/xujunlin/mydjango/internal/config"
	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var seedTags = []string{"Python基础", "Python高级", "Python函数", "PythonGUI", "Linux教程", "Python框架"}

// seedSummary 记录本次生成的数据量
type seedSummary struct {
	Users    int
	Tags     int
	News     int
	HotNews  int
	Banners  int
	Docs     int
	Courses  int
	Comments int
}

// 测试数据生成器
func main() {
	newsCount := flag.Int("news", 40, "number of news to generate")
	seed := flag.Int64("seed", 0, "random seed, 0 for a random run")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()
	if err := db.Init(db.Options{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseDSN}, logger); err != nil {
		logger.Fatal("数据库初始化失败", zap.Error(err))
	}

	logger.Info("开始生成测试数据...", zap.Int("news", *newsCount))
	summary, err := generate(context.Background(), db.DB, gofakeit.New(*seed), *newsCount, logger)
	if err != nil {
		logger.Fatal("生成测试数据失败", zap.Error(err))
	}
	logger.Info("测试数据生成完成",
		zap.Int("users", summary.Users),
		zap.Int("tags", summary.Tags),
		zap.Int("news", summary.News),
		zap.Int("hot_news", summary.HotNews),
		zap.Int("banners", summary.Banners),
		zap.Int("docs", summary.Docs),
		zap.Int("courses", summary.Courses),
		zap.Int("comments", summary.Comments),
	)
}

// generate 通过服务层写入用户、标签、新闻及其热门/轮播、评论、文档与课程。
func generate(ctx context.Context, gdb *gorm.DB, faker *gofakeit.Faker, newsCount int, logger *zap.Logger) (seedSummary, error) {
	var summary seedSummary

	users := service.NewUserService(gdb)
	authors := make([]uint, 0, 3)
	for i := 0; i < 3; i++ {
		user, err := users.Register(
			fmt.Sprintf("%s%03d", faker.Username(), i),
			"user123456",
			fmt.Sprintf("1%d%09d", faker.Number(3, 9), faker.Number(0, 999999999)),
		)
		if err != nil {
			return summary, fmt.Errorf("create user: %w", err)
		}
		authors = append(authors, user.ID)
		summary.Users++
	}

	tags := service.NewTagService(gdb)
	tagIDs := make([]uint, 0, len(seedTags))
	for _, name := range seedTags {
		tag, outcome, err := tags.GetOrCreate(name)
		if err != nil {
			return summary, fmt.Errorf("create tag %q: %w", name, err)
		}
		if outcome != service.Found {
			summary.Tags++
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	news := service.NewNewsService(gdb, nil, logger, nil)
	newsIDs := make([]uint, 0, newsCount)
	for i := 0; i < newsCount; i++ {
		created, err := news.Create(ctx, authors[i%len(authors)], service.NewsInput{
			Title:    faker.Sentence(faker.Number(3, 8)),
			Digest:   faker.Sentence(faker.Number(8, 15)),
			Content:  faker.Paragraph(3, 4, 12, "\n\n"),
			ImageURL: faker.ImageURL(640, 360),
			TagID:    tagIDs[faker.Number(0, len(tagIDs)-1)],
		})
		if err != nil {
			return summary, fmt.Errorf("create news: %w", err)
		}
		newsIDs = append(newsIDs, created.ID)
		summary.News++
	}

	hot := service.NewHotNewsService(gdb)
	banners := service.NewBannerService(gdb)
	for i, id := range newsIDs {
		if i >= service.BannerLimit {
			break
		}
		priority := db.PriorityChoices[i%len(db.PriorityChoices)].Value
		if i < service.HotNewsLimit {
			if _, _, err := hot.Add(id, priority); err != nil {
				return summary, fmt.Errorf("add hot news: %w", err)
			}
			summary.HotNews++
		}
		if _, _, err := banners.Add(id, priority, faker.ImageURL(1200, 400)); err != nil {
			return summary, fmt.Errorf("add banner: %w", err)
		}
		summary.Banners++
	}

	comments := service.NewCommentService(gdb)
	for i, id := range newsIDs {
		if i%4 != 0 {
			continue
		}
		root, err := comments.Create(id, authors[0], faker.Sentence(6), nil)
		if err != nil {
			return summary, fmt.Errorf("create comment: %w", err)
		}
		if _, err := comments.Create(id, authors[len(authors)-1], faker.Sentence(4), &root.ID); err != nil {
			return summary, fmt.Errorf("reply comment: %w", err)
		}
		summary.Comments += 2
	}

	docs := service.NewDocService(gdb)
	for i := 0; i < 4; i++ {
		if _, err := docs.Create(authors[0], service.DocInput{
			Title:    faker.Sentence(4),
			Desc:     faker.Sentence(12),
			FileURL:  fmt.Sprintf("/media/docs/%s.pdf", faker.UUID()),
			ImageURL: faker.ImageURL(320, 240),
		}); err != nil {
			return summary, fmt.Errorf("create doc: %w", err)
		}
		summary.Docs++
	}

	teacher := db.Teacher{
		Name:            faker.Name(),
		PositionalTitle: faker.JobTitle(),
		Profile:         faker.Sentence(10),
		AvatarURL:       faker.ImageURL(200, 200),
	}
	if err := gdb.Create(&teacher).Error; err != nil {
		return summary, fmt.Errorf("create teacher: %w", err)
	}
	category := db.CourseCategory{Name: "Python"}
	if err := gdb.Create(&category).Error; err != nil {
		return summary, fmt.Errorf("create category: %w", err)
	}

	courses := service.NewCourseService(gdb)
	for i := 0; i < 3; i++ {
		if _, err := courses.Create(service.CourseInput{
			Title:      faker.Sentence(3),
			CoverURL:   faker.ImageURL(480, 270),
			VideoURL:   fmt.Sprintf("https://video.example.com/%s.mp4", faker.UUID()),
			Duration:   float64(faker.Number(300, 5400)),
			Profile:    "## " + faker.Sentence(3) + "\n\n" + faker.Paragraph(1, 3, 10, "\n"),
			Outline:    "- " + faker.Sentence(3) + "\n- " + faker.Sentence(3),
			TeacherID:  teacher.ID,
			CategoryID: category.ID,
		}); err != nil {
			return summary, fmt.Errorf("create course: %w", err)
		}
		summary.Courses++
	}

	return summary, nil
}
