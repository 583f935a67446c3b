package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"filmorate/internal/bootstrap"
	"filmorate/internal/config"
	"filmorate/internal/events"
	"filmorate/internal/logger"
	"filmorate/internal/models"
	"filmorate/internal/services"
	"filmorate/internal/storage"
	"filmorate/internal/validation"
)

// backendOpener 打开配置指定的存储后端，测试中替换为内存存储。
type backendOpener func(cfg config.Config) (*bootstrap.Backend, error)

func defaultOpener(cfg config.Config) (*bootstrap.Backend, error) {
	if cfg.Storage.Backend == config.BackendMemory {
		logger.Warn("admin 使用内存存储，数据不会被持久化")
	}
	return bootstrap.OpenBackend(cfg)
}

// cli 保存各子命令共用的状态。
type cli struct {
	configPath string
	open       backendOpener

	backend *bootstrap.Backend
	films   services.FilmService
	users   services.UserService
}

func newRootCmd(open backendOpener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:           "admin",
		Short:         "filmorate 运维命令",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.backend != nil {
				c.backend.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "配置文件路径 (默认查找 ./config/config.yaml)")

	films := &cobra.Command{Use: "films", Short: "电影相关命令"}
	films.AddCommand(c.filmsListCmd(), c.filmsTopCmd())

	users := &cobra.Command{Use: "users", Short: "用户和好友相关命令"}
	users.AddCommand(c.usersFriendsCmd(), c.usersCommonCmd())

	root.AddCommand(films, users, c.migrateCmd())
	return root
}

// setup 加载配置并打开存储后端。事件在命令行中不发布。
func (c *cli) setup() (config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return cfg, fmt.Errorf("无法加载配置: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.Development)

	backend, err := c.open(cfg)
	if err != nil {
		return cfg, err
	}
	c.backend = backend

	validator := validation.Default()
	c.films = services.NewFilmService(backend.Tx, validator, events.NopPublisher{})
	c.users = services.NewUserService(backend.Tx, validator, events.NopPublisher{})
	return cfg, nil
}

func (c *cli) filmsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出所有电影",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.setup(); err != nil {
				return err
			}
			films, err := c.films.ListFilms(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "共 %d 部电影:\n", len(films))
			fmt.Fprintln(out, "--------------------------------------")
			for _, f := range films {
				printFilm(out, f)
			}
			return nil
		},
	}
}

func (c *cli) filmsTopCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "按点赞数列出最受欢迎的电影",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.setup(); err != nil {
				return err
			}
			top, err := c.films.TopFilms(cmd.Context(), count)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, f := range top {
				fmt.Fprintf(out, "#%d %d 赞  ", i+1, f.Likes)
				printFilm(out, f.Film)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 10, "返回的电影数量")
	return cmd
}

func (c *cli) usersFriendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "friends <userID>",
		Short: "列出用户的好友",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := c.setup(); err != nil {
				return err
			}
			friends, err := c.users.Friends(cmd.Context(), userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "用户 %d 的好友 (%d 人):\n", userID, len(friends))
			fmt.Fprintln(out, "--------------------------------------")
			printUsers(out, friends)
			return nil
		},
	}
}

func (c *cli) usersCommonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "common <userID> <otherID>",
		Short: "列出两个用户的共同好友",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			otherID, err := parseID(args[1])
			if err != nil {
				return err
			}
			if _, err := c.setup(); err != nil {
				return err
			}
			common, err := c.users.CommonFriends(cmd.Context(), userID, otherID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "用户 %d 和 %d 的共同好友 (%d 人):\n", userID, otherID, len(common))
			fmt.Fprintln(out, "--------------------------------------")
			printUsers(out, common)
			return nil
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "同步 postgres 表结构并写入类型和分级数据",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.setup()
			if err != nil {
				return err
			}
			if c.backend.DB == nil {
				return fmt.Errorf("migrate 需要 postgres 后端，当前为 %q", cfg.Storage.Backend)
			}
			if err := storage.AutoMigrateTables(c.backend.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "迁移完成")
			return nil
		},
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("无效的ID: %q", raw)
	}
	return uint(id), nil
}

func printFilm(out io.Writer, f models.Film) {
	mpa := "-"
	if f.Mpa != nil {
		mpa = f.Mpa.Name
	}
	fmt.Fprintf(out, "ID: %d, 名称: %s, 上映: %s, 时长: %d 分钟, 分级: %s\n",
		f.ID, f.Name, f.ReleaseDate, f.Duration, mpa)
}

func printUsers(out io.Writer, users []models.User) {
	for i, u := range users {
		fmt.Fprintf(out, "#%d ID: %d, 登录名: %s, 名字: %s, 邮箱: %s\n", i+1, u.ID, u.Login, u.Name, u.Email)
	}
}
